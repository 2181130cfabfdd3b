package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/domain"
)

const humanID = "you"

var botNames = map[string]string{
	"bot-east": "East",
	"bot-west": "West",
}

func main() {
	pterm.DefaultHeader.WithFullWidth().Println("Dou Dizhu")
	pterm.Info.Println("You play against two bots. Enter ranks separated by spaces, e.g. '3 3 5', or 'pass'.")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := app.NewService(rng)

	game, events, err := svc.StartGame([]string{humanID, "bot-east", "bot-west"})
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	agents := map[string]*bot.Agent{
		"bot-east": bot.NewAgent("bot-east", "East", bot.NewSmartBot()),
		"bot-west": bot.NewAgent("bot-west", "West", bot.NewSmartBot()),
	}

	announce(events)

	for game.Phase == domain.PhasePlaying {
		current := game.CurrentTurnID
		if agent, ok := agents[current]; ok {
			events = botTurn(svc, game, agent)
		} else {
			events = humanTurn(svc, game)
		}

		for _, ev := range events {
			if ev.Kind == app.EventCardPlayed {
				played := ev.Payload.(app.CardPlayedPayload)
				for _, a := range agents {
					a.ObservePlay(played.Cards)
				}
			}
		}
		announce(events)
	}
}

func botTurn(svc *app.Service, game *domain.Game, agent *bot.Agent) []app.Event {
	// A short pause keeps bot turns readable.
	time.Sleep(600 * time.Millisecond)

	move, err := agent.Play(game)
	if err != nil {
		pterm.Warning.Printfln("%s could not decide (%v), passing.", agent.Name, err)
		move = bot.Move{Pass: true}
	}

	var events []app.Event
	if move.Pass {
		events, err = svc.PassTurn(game, agent.ID)
	} else {
		events, err = svc.PlayCards(game, agent.ID, move.Cards)
	}
	if err != nil {
		// The strategy produced an illegal move; fall back to passing.
		events, err = svc.PassTurn(game, agent.ID)
		if err != nil {
			pterm.Error.Printfln("%s is stuck: %v", agent.Name, err)
			os.Exit(1)
		}
	}
	return events
}

func humanTurn(svc *app.Service, game *domain.Game) []app.Event {
	player := game.Players[humanID]

	for {
		showTable(game)
		showHand(player.Hand)

		input, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("Your move").
			Show()
		input = strings.TrimSpace(input)

		if strings.EqualFold(input, "pass") {
			events, err := svc.PassTurn(game, humanID)
			if err != nil {
				pterm.Warning.Printfln("Cannot pass: %v", err)
				continue
			}
			return events
		}

		cards, err := pickCards(player.Hand, input)
		if err != nil {
			pterm.Warning.Println(err)
			continue
		}

		events, err := svc.PlayCards(game, humanID, cards)
		if err != nil {
			pterm.Warning.Printfln("Illegal play: %v", err)
			continue
		}
		return events
	}
}

// pickCards resolves space-separated rank tokens against the hand,
// taking the lowest suit for each requested rank.
func pickCards(hand []domain.Card, input string) ([]domain.Card, error) {
	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("enter ranks or 'pass'")
	}

	remaining := append([]domain.Card(nil), hand...)
	cards := make([]domain.Card, 0, len(tokens))
	for _, token := range tokens {
		rank, err := parseRank(token)
		if err != nil {
			return nil, err
		}

		found := false
		for i, c := range remaining {
			if c.Rank == rank {
				cards = append(cards, c)
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("you do not hold enough %s", rank)
		}
	}
	return cards, nil
}

func parseRank(token string) (domain.Rank, error) {
	switch strings.ToUpper(token) {
	case "3":
		return domain.Rank3, nil
	case "4":
		return domain.Rank4, nil
	case "5":
		return domain.Rank5, nil
	case "6":
		return domain.Rank6, nil
	case "7":
		return domain.Rank7, nil
	case "8":
		return domain.Rank8, nil
	case "9":
		return domain.Rank9, nil
	case "10", "T":
		return domain.Rank10, nil
	case "J":
		return domain.RankJ, nil
	case "Q":
		return domain.RankQ, nil
	case "K":
		return domain.RankK, nil
	case "A":
		return domain.RankA, nil
	case "2":
		return domain.Rank2, nil
	case "SJ", "JOKER":
		return domain.SmallJoker, nil
	case "BJ":
		return domain.BigJoker, nil
	}
	return 0, fmt.Errorf("unknown rank %q", token)
}

func showTable(game *domain.Game) {
	rows := pterm.TableData{{"Player", "Cards left", "Role"}}
	for seat := 0; seat < domain.SeatCount; seat++ {
		pl := game.PlayerAtSeat(seat)
		if pl == nil {
			continue
		}
		role := "farmer"
		if pl.IsLandlord {
			role = "landlord"
		}
		rows = append(rows, []string{displayName(pl.UserID), fmt.Sprint(len(pl.Hand)), role})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	if len(game.TableCards) > 0 {
		pterm.Printfln("Standing play by %s: %s", displayName(game.LastPlayerID), cardLine(game.TableCards))
	} else {
		pterm.Println("Fresh trick, you lead.")
	}
}

func showHand(hand []domain.Card) {
	pterm.Printfln("Your hand: %s", cardLine(hand))
}

func announce(events []app.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case app.EventLandlordAssigned:
			p := ev.Payload.(app.LandlordAssignedPayload)
			pterm.DefaultSection.Printfln("%s is the landlord (bonus: %s)", displayName(p.UserID), cardLine(p.BonusCards))
		case app.EventCardPlayed:
			p := ev.Payload.(app.CardPlayedPayload)
			pterm.Printfln("%s played %s (%s), %d left", displayName(p.UserID), cardLine(p.Cards), p.Shape, p.Remaining)
		case app.EventTurnPassed:
			p := ev.Payload.(app.TurnPassedPayload)
			if p.TrickCleared {
				pterm.Printfln("%s passed, trick cleared.", displayName(p.UserID))
			} else {
				pterm.Printfln("%s passed.", displayName(p.UserID))
			}
		case app.EventGameEnded:
			p := ev.Payload.(app.GameEndedPayload)
			role := "The farmers"
			if p.LandlordWon {
				role = "The landlord"
			}
			if p.WinnerID == humanID {
				pterm.Success.Printfln("%s won! You emptied your hand first.", role)
			} else {
				pterm.Error.Printfln("%s won. %s went out first.", role, displayName(p.WinnerID))
			}
		}
	}
}

func cardLine(cards []domain.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func displayName(userID string) string {
	if userID == humanID {
		return "You"
	}
	if name, ok := botNames[userID]; ok {
		return name
	}
	return userID
}
