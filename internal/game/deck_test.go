package game

import (
	"math/rand"
	"testing"
)

func TestDeckDrawsExactlySize(t *testing.T) {
	const n = 52
	d := NewDeck(n, rand.New(rand.NewSource(1)))

	if d.Remaining() != n {
		t.Fatalf("Remaining() = %d before drawing, want %d", d.Remaining(), n)
	}

	prev := d.Remaining()
	for i := 0; i < n; i++ {
		if _, ok := d.Draw(); !ok {
			t.Fatalf("draw %d failed", i+1)
		}
		if d.Remaining() >= prev {
			t.Fatalf("Remaining() did not decrease: %d -> %d", prev, d.Remaining())
		}
		prev = d.Remaining()
	}

	if d.Remaining() != 0 || !d.IsEmpty() {
		t.Fatalf("deck not empty after %d draws: %d left", n, d.Remaining())
	}

	c, ok := d.Draw()
	if ok {
		t.Fatalf("draw from empty deck returned %s", c)
	}
	if c != (Card{}) {
		t.Fatalf("draw from empty deck returned a usable card %s", c)
	}
	if d.Remaining() != 0 {
		t.Fatalf("Remaining() = %d after empty draw", d.Remaining())
	}
}

func TestDeckIsReproducible(t *testing.T) {
	a := NewDeck(30, rand.New(rand.NewSource(42)))
	b := NewDeck(30, rand.New(rand.NewSource(42)))

	for i := 0; i < 30; i++ {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("card %d differs: %s vs %s", i, ca, cb)
		}
	}
}

func TestDeckRankDistribution(t *testing.T) {
	d := NewDeck(13000, rand.New(rand.NewSource(3)))
	counts := map[Kind]int{}
	for !d.IsEmpty() {
		c, _ := d.Draw()
		counts[c.Kind()]++
	}

	// 1/13 aces, 3/13 faces, 9/13 numbered cards, with generous slack.
	check := func(k Kind, want int) {
		got := counts[k]
		if got < want*8/10 || got > want*12/10 {
			t.Errorf("%v: got %d cards, want about %d", k, got, want)
		}
	}
	check(KindAce, 1000)
	check(KindFace, 3000)
	check(KindNormal, 9000)
}

func TestDeckOf(t *testing.T) {
	d := DeckOf(NewCard(1, Hearts), NewCard(5, Clubs))
	if d.Size() != 2 {
		t.Fatalf("Size() = %d", d.Size())
	}
	first, _ := d.Draw()
	second, _ := d.Draw()
	if !first.IsAce() || second.Value() != 5 {
		t.Fatalf("drew %s then %s", first, second)
	}
}

func TestZeroSizeDeck(t *testing.T) {
	d := NewDeck(0, rand.New(rand.NewSource(1)))
	if !d.IsEmpty() {
		t.Fatal("zero size deck should be empty")
	}
	if _, ok := d.Draw(); ok {
		t.Fatal("zero size deck dealt a card")
	}
}
