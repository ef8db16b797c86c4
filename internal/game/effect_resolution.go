package game

import (
	"fmt"

	"github.com/peterkuimelis/rowclash/internal/log"
)

// activate resolves an effect card that has already left the hand. Summon and
// Revive bring a follow-up card into hand and play it straight into its
// natural row; a follow-up effect card resolves in turn until MaxEffectDepth
// effects have resolved, after which it stays in hand. Each resolved effect
// card is graveyarded after it resolves.
func (b *Board) activate(seat Seat, card Card, target *Slot) {
	p := b.players[seat]
	for depth := 1; ; depth++ {
		b.log(log.NewActivateEvent(b.round, int(seat), p.Name, card.Name))
		followUp := b.resolveEffect(seat, card, target)
		p.Graveyard = append(p.Graveyard, card)
		if !followUp {
			return
		}

		next := len(p.Hand) - 1
		nextCard := p.Hand[next]
		if !nextCard.IsEffect() {
			row, err := b.placementRow(nextCard, RowAny)
			if err != nil {
				b.log(log.NewFizzleEvent(b.round, int(seat), nextCard.Name, "no playable row, kept in hand"))
				return
			}
			p.removeFromHand(next)
			b.place(seat, nextCard, row)
			return
		}
		if depth >= MaxEffectDepth || nextCard.Effect.NeedsTarget() {
			b.log(log.NewFizzleEvent(b.round, int(seat), nextCard.Name, "chained effect, kept in hand"))
			return
		}
		p.removeFromHand(next)
		card, target = nextCard, nil
	}
}

// resolveEffect applies a single effect. It reports whether a follow-up card
// was added to the end of the owner's hand and must be played.
func (b *Board) resolveEffect(seat Seat, card Card, target *Slot) bool {
	p := b.players[seat]
	switch card.Effect.Kind {
	case EffectDraw:
		if b.DrawCardsToHand(seat, card.Effect.Count, false) == 0 {
			b.log(log.NewFizzleEvent(b.round, int(seat), card.Name, "deck is empty"))
		}
		return false

	case EffectBurn:
		if target == nil {
			b.log(log.NewFizzleEvent(b.round, int(seat), card.Name, "no opposing cards"))
			return false
		}
		opp := seat.Opponent()
		burned, err := b.RemoveCardFromBoard(opp, target.Row, target.Index)
		if err != nil {
			b.log(log.NewFizzleEvent(b.round, int(seat), card.Name, err.Error()))
			return false
		}
		b.log(log.NewBurnEvent(b.round, int(seat), p.Name, burned.Name, target.Row.String(), b.players[opp].Name))
		return false

	case EffectSummon:
		if p.drawFromDeck(1) == 0 {
			b.log(log.NewFizzleEvent(b.round, int(seat), card.Name, "deck is empty"))
			return false
		}
		b.log(log.NewSummonEvent(b.round, int(seat), p.Name, p.Hand[len(p.Hand)-1].Name))
		return true

	case EffectRevive:
		if p.drawFromGraveyard(1) == 0 {
			b.log(log.NewFizzleEvent(b.round, int(seat), card.Name, "graveyard is empty"))
			return false
		}
		b.log(log.NewReviveEvent(b.round, int(seat), p.Name, p.Hand[len(p.Hand)-1].Name))
		return true

	case EffectNone:
		panic(fmt.Sprintf("game: %s is not an effect card", card.Name))

	default:
		panic(fmt.Sprintf("game: unknown effect kind %d on %s", int(card.Effect.Kind), card.Name))
	}
}
