package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"holdem-engine/internal/config"
	"holdem-engine/internal/rng"
	"holdem-engine/internal/util"
	"holdem-engine/pkg/holdem"
	"holdem-engine/pkg/holdem/actor"
	"holdem-engine/pkg/holdem/bot"
)

// Version is the simulator version
var Version = "v0.0.0-dev"

var quiet = flag.Bool("quiet", false, "only print the final standings")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	personalities, err := loadPersonalities(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("could not load personalities")
	}

	if len(cfg.Bots) < 2 {
		logrus.Fatal("at least two bots are required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = int64(rng.Crypto{}.Intn(1<<31-1)) + 1
	}

	seats := make([]holdem.SeatConfig, len(cfg.Bots))
	names := make(map[int64]string)
	nets := make(map[int64]int)
	for i := range cfg.Bots {
		id := int64(i + 1)
		seats[i] = holdem.SeatConfig{SeatID: id, Chips: cfg.StartingChips, IsBot: true}
		names[id] = util.GetRandomName()
	}

	table, err := holdem.NewTable(logrus.StandardLogger(), seats, holdem.Options{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		Seed:       seed,
		OnSettlement: func(_ uuid.UUID, deltas map[int64]int) {
			for id, delta := range deltas {
				nets[id] += delta
			}
		},
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create table")
	}

	runner := actor.NewBotRunner(logrus.StandardLogger(), table, seed)
	for i, name := range cfg.Bots {
		personality, ok := personalities[name]
		if !ok {
			logrus.WithField("personality", name).Fatal("unknown personality")
		}

		runner.AssignPersonality(int64(i+1), personality)
	}

	if cfg.ThinkingTimeMS > 0 {
		runner.Humanized(time.Duration(cfg.ThinkingTimeMS) * time.Millisecond)
	}

	if !*quiet {
		go printEvents(table, names)
	}

	pterm.DefaultSection.Printfln("Texas Hold'em simulation %s (seed %d, blinds %d/%d)", Version, seed, cfg.SmallBlind, cfg.BigBlind)

	for i := 0; i < cfg.Hands; i++ {
		if err := runner.PlayHand(); err != nil {
			if err == holdem.ErrInsufficientPlayers {
				pterm.Info.Printfln("only one bot has chips left after %d hands", table.HandsDealt())
				break
			}

			logrus.WithError(err).Fatal("hand failed")
		}
	}

	printStandings(table, cfg, names, nets)
}

func loadPersonalities(cfg config.Config) (map[string]bot.Personality, error) {
	personalities := make(map[string]bot.Personality)
	for _, name := range bot.PresetNames() {
		p, err := bot.Preset(name)
		if err != nil {
			return nil, err
		}

		personalities[name] = p
	}

	if cfg.PersonalitiesFile != "" {
		loaded, err := bot.LoadPersonalities(cfg.PersonalitiesFile)
		if err != nil {
			return nil, err
		}

		for name, p := range loaded {
			personalities[name] = p
		}
	}

	return personalities, nil
}

func printEvents(table *holdem.Table, names map[int64]string) {
	for event := range table.Events() {
		switch event.Type {
		case holdem.EventActionTaken:
			pterm.Printfln("%s %s", pterm.LightCyan(names[event.SeatID]), event.Action.LogMessage(event.Amount))
		case holdem.EventStreetAdvanced:
			pterm.Printfln("%s %s", pterm.Gray(event.Phase.String()+":"), event.Cards)
		case holdem.EventHandShowdown:
			for id, hand := range event.Hands {
				pterm.Printfln("%s shows %s", pterm.LightCyan(names[id]), hand)
			}
		case holdem.EventPotAwarded:
			pterm.Success.Printfln("%s wins ${%d}", names[event.SeatID], event.Amount)
		}
	}
}

func printStandings(table *holdem.Table, cfg config.Config, names map[int64]string, nets map[int64]int) {
	state := table.State()
	seats := make([]*holdem.SeatState, len(state.Seats))
	copy(seats, state.Seats)
	sort.Slice(seats, func(i, j int) bool {
		return seats[i].Chips > seats[j].Chips
	})

	data := pterm.TableData{{"Seat", "Bot", "Personality", "Chips", "Net"}}
	for _, seat := range seats {
		data = append(data, []string{
			fmt.Sprintf("%d", seat.SeatID),
			names[seat.SeatID],
			cfg.Bots[int(seat.SeatID)-1],
			fmt.Sprintf("%d", seat.Chips),
			fmt.Sprintf("%+d", nets[seat.SeatID]),
		})
	}

	pterm.DefaultSection.Printfln("Standings after %d hands", table.HandsDealt())
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		logrus.WithError(err).Error("could not render standings")
	}
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
