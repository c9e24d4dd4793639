package potmanager

// Participant provides an interface for retrieving and adjusting a participant's chips
type Participant interface {
	ID() int64
	Balance() int
	AdjustBalance(amount int)
	SetAmountInPlay(amount int)
}

// participantInPot is a participant in a pot
type participantInPot struct {
	Participant
	// tableIndex is where the player is seated at the table
	tableIndex int
	// amountInPlay keeps track of how much the player is risking on the current betting round
	amountInPlay int
	// totalContributed is how much the player has put in over the whole hand
	totalContributed int
	isAllIn          bool
	isFolded         bool
	// hasActed is true once the participant voluntarily acted this round.
	// Posting a blind does not count.
	hasActed bool
}

// reset is called when the betting round is complete
func (p *participantInPot) reset() {
	p.amountInPlay = 0
	p.hasActed = false
	p.SetAmountInPlay(0)
}

func (p *participantInPot) adjustAmountInPlay(amount int) {
	p.amountInPlay += amount
	p.totalContributed += amount
	p.Participant.SetAmountInPlay(p.amountInPlay)
}

// canAct returns true if the participant can check, call, raise, fold
func (p *participantInPot) canAct() bool {
	return !p.isFolded && !p.isAllIn
}

type sortByTableIndex []*participantInPot

func (s sortByTableIndex) Len() int {
	return len(s)
}

func (s sortByTableIndex) Less(i, j int) bool {
	return s[i].tableIndex < s[j].tableIndex
}

func (s sortByTableIndex) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
