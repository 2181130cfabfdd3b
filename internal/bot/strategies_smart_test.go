package bot

import (
	"reflect"
	"testing"

	"doudizhu/internal/bot/brain"
	"doudizhu/internal/domain"
)

func handOf(ranks ...domain.Rank) []domain.Card {
	suits := []domain.Suit{domain.Spade, domain.Heart, domain.Diamond, domain.Club}
	seen := make(map[domain.Rank]int)
	out := make([]domain.Card, 0, len(ranks))
	for _, r := range ranks {
		if r.IsJoker() {
			out = append(out, domain.Card{Rank: r})
			continue
		}
		out = append(out, domain.Card{Suit: suits[seen[r]%4], Rank: r})
		seen[r]++
	}
	return out
}

// testGame seats three players with p0 as landlord and puts the given
// cards on the table as the standing play.
func testGame(t *testing.T, hand []domain.Card, standing []domain.Card) (*domain.Game, *domain.Player) {
	t.Helper()
	game := &domain.Game{
		Phase:      domain.PhasePlaying,
		Players:    make(map[string]*domain.Player),
		LandlordID: "p0",
	}
	for seat, id := range []string{"p0", "p1", "p2"} {
		game.Seats[seat] = id
		game.Players[id] = &domain.Player{
			UserID:     id,
			Seat:       seat,
			IsLandlord: id == "p0",
			Hand:       handOf(domain.Rank3, domain.Rank4, domain.Rank5),
		}
	}
	player := game.Players["p1"]
	player.Hand = hand

	if len(standing) > 0 {
		play, err := domain.Classify(standing)
		if err != nil {
			t.Fatalf("Classify(%v): %v", standing, err)
		}
		game.TableCards = standing
		game.TablePlay = play
		game.LastPlayerID = "p0"
	}
	return game, player
}

func mustShape(t *testing.T, cards []domain.Card) domain.PlayShape {
	t.Helper()
	play, err := domain.Classify(cards)
	if err != nil {
		t.Fatalf("move %v does not classify: %v", cards, err)
	}
	return play.Shape
}

func TestSmartBotPlaysRocketToFinish(t *testing.T) {
	game, player := testGame(t, handOf(domain.SmallJoker, domain.BigJoker), nil)

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass || mustShape(t, move.Cards) != domain.Rocket {
		t.Errorf("a pure rocket hand must lead the rocket, got %v", move)
	}
}

func TestSmartBotLeadsRocketWithoutWholeHandWin(t *testing.T) {
	game, player := testGame(t, handOf(domain.SmallJoker, domain.BigJoker, domain.Rank3, domain.Rank5), nil)

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass || mustShape(t, move.Cards) != domain.Rocket {
		t.Errorf("lead with no one-combination win should play the rocket, got %v", move)
	}
}

func TestSmartBotPrefersWholeHandWinOverRocket(t *testing.T) {
	hand := handOf(
		domain.Rank3, domain.Rank3, domain.Rank3, domain.Rank3,
		domain.SmallJoker, domain.BigJoker,
	)
	game, player := testGame(t, hand, nil)

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass || len(move.Cards) != len(hand) {
		t.Errorf("a one-combination win must empty the hand, got %v", move)
	}
}

func TestSmartBotLeadsWholeHandTrioWithSingles(t *testing.T) {
	hand := handOf(domain.Rank3, domain.Rank3, domain.Rank3, domain.Rank4, domain.Rank5)
	game, player := testGame(t, hand, nil)

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass || len(move.Cards) != len(hand) {
		t.Fatalf("a trio with two loose singles empties the hand in one play, got %v", move)
	}
	if mustShape(t, move.Cards) != domain.TrioSingle {
		t.Errorf("the whole hand should go out as trio with singles, got %v", move.Cards)
	}
}

func TestSmartBotWithholdsBombOnFollow(t *testing.T) {
	hand := handOf(
		domain.RankK, domain.RankK, domain.RankK, domain.RankK,
		domain.Rank3, domain.Rank4, domain.Rank5, domain.Rank6,
		domain.Rank8, domain.Rank10,
	)
	game, player := testGame(t, hand, handOf(domain.Rank9))

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass {
		t.Fatal("a cheap beat exists; the bot should not pass")
	}
	if mustShape(t, move.Cards) == domain.Bomb {
		t.Fatal("the bomb should be withheld early with a big hand")
	}
	if len(move.Cards) != 1 || move.Cards[0].Rank != domain.Rank10 {
		t.Errorf("expected the snug single 10, got %v", move.Cards)
	}
}

func TestSmartBotAnswersBombWithBiggerBomb(t *testing.T) {
	hand := handOf(
		domain.RankK, domain.RankK, domain.RankK, domain.RankK,
		domain.Rank3, domain.Rank4, domain.Rank5, domain.Rank6,
		domain.Rank8, domain.Rank10,
	)
	game, player := testGame(t, hand, handOf(domain.Rank7, domain.Rank7, domain.Rank7, domain.Rank7))

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass || mustShape(t, move.Cards) != domain.Bomb {
		t.Errorf("recapturing control from a lower bomb should pass the gate, got %v", move)
	}
}

func TestSmartBotEndgameEmptiesHand(t *testing.T) {
	game, player := testGame(t, handOf(domain.Rank9, domain.Rank9), handOf(domain.Rank3, domain.Rank3))

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if move.Pass || len(move.Cards) != 2 {
		t.Errorf("the emptying pair must be played, got %v", move)
	}
}

func TestSmartBotPassesAgainstRocket(t *testing.T) {
	hand := handOf(domain.Rank2, domain.Rank2, domain.Rank2, domain.Rank2)
	game, player := testGame(t, hand, handOf(domain.SmallJoker, domain.BigJoker))

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Errorf("nothing beats the rocket, got %v", move.Cards)
	}
}

func TestSmartBotPassesWithNoBeat(t *testing.T) {
	game, player := testGame(t, handOf(domain.Rank3, domain.Rank4), handOf(domain.RankK))

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Errorf("no legal beat exists, got %v", move.Cards)
	}
}

func TestSmartBotLeadIsDeterministic(t *testing.T) {
	hand := handOf(
		domain.Rank3, domain.Rank3, domain.Rank5, domain.Rank6,
		domain.Rank7, domain.Rank8, domain.Rank9, domain.RankJ,
		domain.RankQ, domain.RankA, domain.Rank2,
	)
	game, player := testGame(t, hand, nil)

	bot := NewSmartBot()
	first, err := bot.CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if first.Pass {
		t.Fatal("lead must always produce a play")
	}
	if !domain.OwnsCards(hand, first.Cards) {
		t.Fatalf("lead played cards outside the hand: %v", first.Cards)
	}

	second, err := bot.CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same state must produce the same move: %v vs %v", first, second)
	}
}

func TestSmartBotEmptyHandPasses(t *testing.T) {
	game, player := testGame(t, nil, nil)

	move, err := NewSmartBot().CalculateMove(game, player, brain.NewSeenRanks())
	if err != nil {
		t.Fatal(err)
	}
	if !move.Pass {
		t.Errorf("an empty hand can only pass, got %v", move.Cards)
	}
}
