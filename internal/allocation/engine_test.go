package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/msg-ledger/internal/logging"
	"fjacquet/msg-ledger/internal/models"
)

func testEngine() *Engine {
	return New(DefaultParty, logging.NewLogrusAdapter("error", "text"))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAllocateNoSplit(t *testing.T) {
	e := testEngine()
	result := e.Allocate(&models.ParsedMessage{
		Amount:    dec("250"),
		SplitType: models.SplitNone,
	})

	assert.True(t, result.MyAmount.Equal(dec("250")))
	assert.Empty(t, result.PeerDebts)
}

func TestAllocateForPerson(t *testing.T) {
	tests := []struct {
		name      string
		msg       models.ParsedMessage
		party     string
		direction models.PeerDirection
	}{
		{
			name:      "Paid by me",
			msg:       models.ParsedMessage{Amount: dec("90"), ForPerson: "ana"},
			party:     "ana",
			direction: models.TheyOweMe,
		},
		{
			name:      "Paid by roommate",
			msg:       models.ParsedMessage{Amount: dec("90"), ForPerson: "ana", PaidBy: "roommate"},
			party:     "ana",
			direction: models.IOweThem,
		},
		{
			name: "Named other wins over for-person",
			msg: models.ParsedMessage{
				Amount:       dec("90"),
				ForPerson:    "ana",
				OtherParties: []string{"ben"},
			},
			party:     "ben",
			direction: models.TheyOweMe,
		},
		{
			name: "For-person overrides split",
			msg: models.ParsedMessage{
				Amount:    dec("90"),
				ForPerson: "ana",
				SplitType: models.SplitEqual,
			},
			party:     "ana",
			direction: models.TheyOweMe,
		},
	}

	e := testEngine()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := e.Allocate(&tc.msg)

			assert.True(t, result.MyAmount.IsZero())
			require.Len(t, result.PeerDebts, 1)
			debt := result.PeerDebts[0]
			assert.Equal(t, tc.party, debt.OtherParty)
			assert.Equal(t, tc.direction, debt.Direction)
			assert.True(t, debt.Amount.Equal(dec("90")))
		})
	}
}

func TestAllocateEqualSplit(t *testing.T) {
	e := testEngine()

	t.Run("Single named other paid by me", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:       dec("300"),
			SplitType:    models.SplitEqual,
			OtherParties: []string{"vyas"},
		})

		assert.True(t, result.MyAmount.Equal(dec("150")))
		require.Len(t, result.PeerDebts, 1)
		assert.Equal(t, "vyas", result.PeerDebts[0].OtherParty)
		assert.Equal(t, models.TheyOweMe, result.PeerDebts[0].Direction)
		assert.True(t, result.PeerDebts[0].Amount.Equal(dec("150")))
	})

	t.Run("Paid by roommate yields my debt", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:       dec("300"),
			SplitType:    models.SplitEqual,
			PaidBy:       "roommate",
			OtherParties: []string{"vyas"},
		})

		assert.True(t, result.MyAmount.Equal(dec("150")))
		require.Len(t, result.PeerDebts, 1)
		assert.Equal(t, "vyas", result.PeerDebts[0].OtherParty)
		assert.Equal(t, models.IOweThem, result.PeerDebts[0].Direction)
		assert.True(t, result.PeerDebts[0].Amount.Equal(dec("150")))
	})

	t.Run("Two named others", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:       dec("300"),
			SplitType:    models.SplitEqual,
			OtherParties: []string{"ana", "ben"},
		})

		assert.True(t, result.MyAmount.Equal(dec("100")))
		require.Len(t, result.PeerDebts, 2)
		for _, debt := range result.PeerDebts {
			assert.Equal(t, models.TheyOweMe, debt.Direction)
			assert.True(t, debt.Amount.Equal(dec("100")))
		}
		assert.Equal(t, "ana", result.PeerDebts[0].OtherParty)
		assert.Equal(t, "ben", result.PeerDebts[1].OtherParty)
	})

	t.Run("No named other falls back to default party", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:    dec("300"),
			SplitType: models.SplitEqual,
		})

		assert.True(t, result.MyAmount.Equal(dec("150")))
		require.Len(t, result.PeerDebts, 1)
		assert.Equal(t, DefaultParty, result.PeerDebts[0].OtherParty)
	})

	t.Run("Empty default party yields no debts", func(t *testing.T) {
		e := New("", logging.NewLogrusAdapter("error", "text"))
		result := e.Allocate(&models.ParsedMessage{
			Amount:    dec("300"),
			SplitType: models.SplitEqual,
		})

		assert.True(t, result.MyAmount.Equal(dec("150")))
		assert.Empty(t, result.PeerDebts)
	})
}

func TestAllocateRatioSplit(t *testing.T) {
	e := testEngine()

	t.Run("Two to one", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:          dec("90"),
			SplitType:       models.SplitRatio,
			SplitRatioMe:    dec("2"),
			SplitRatioOther: dec("1"),
			OtherParties:    []string{"vyas"},
		})

		assert.True(t, result.MyAmount.Equal(dec("60")))
		require.Len(t, result.PeerDebts, 1)
		assert.True(t, result.PeerDebts[0].Amount.Equal(dec("30")))
		assert.Equal(t, models.TheyOweMe, result.PeerDebts[0].Direction)
	})

	t.Run("Remainder divided across two others", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:          dec("100"),
			SplitType:       models.SplitRatio,
			SplitRatioMe:    dec("1"),
			SplitRatioOther: dec("1"),
			OtherParties:    []string{"ana", "ben"},
		})

		assert.True(t, result.MyAmount.Equal(dec("50")))
		require.Len(t, result.PeerDebts, 2)
		assert.True(t, result.PeerDebts[0].Amount.Equal(dec("25")))
		assert.True(t, result.PeerDebts[1].Amount.Equal(dec("25")))
	})

	t.Run("Missing ratio falls back to equal", func(t *testing.T) {
		result := e.Allocate(&models.ParsedMessage{
			Amount:       dec("90"),
			SplitType:    models.SplitRatio,
			OtherParties: []string{"vyas"},
		})

		assert.True(t, result.MyAmount.Equal(dec("45")))
	})
}

func TestAllocateConservesAmount(t *testing.T) {
	e := testEngine()
	msgs := []*models.ParsedMessage{
		{Amount: dec("301"), SplitType: models.SplitEqual, OtherParties: []string{"ana", "ben"}},
		{Amount: dec("90"), SplitType: models.SplitRatio, SplitRatioMe: dec("2"), SplitRatioOther: dec("1"), OtherParties: []string{"vyas"}},
		{Amount: dec("250"), SplitType: models.SplitNone},
	}

	for _, msg := range msgs {
		result := e.Allocate(msg)
		total := result.MyAmount
		for _, debt := range result.PeerDebts {
			total = total.Add(debt.Amount)
		}
		assert.True(t, total.Equal(msg.Amount),
			"shares sum to %s, want %s", total, msg.Amount)
	}
}

// recordingLogger collects messages so tests can observe fallback
// decisions.
type recordingLogger struct {
	debugs []string
}

func (l *recordingLogger) Debug(msg string, _ ...logging.Field) {
	l.debugs = append(l.debugs, msg)
}

func (l *recordingLogger) Info(string, ...logging.Field)  {}
func (l *recordingLogger) Warn(string, ...logging.Field)  {}
func (l *recordingLogger) Error(string, ...logging.Field) {}
func (l *recordingLogger) Fatal(string, ...logging.Field) {}

func (l *recordingLogger) WithError(error) logging.Logger { return l }

func (l *recordingLogger) WithField(string, interface{}) logging.Logger { return l }

func (l *recordingLogger) WithFields(...logging.Field) logging.Logger { return l }

func TestAllocateLogsFallbacks(t *testing.T) {
	t.Run("Default party", func(t *testing.T) {
		log := &recordingLogger{}
		e := New(DefaultParty, log)
		e.Allocate(&models.ParsedMessage{
			Amount:    dec("300"),
			SplitType: models.SplitEqual,
		})
		require.Len(t, log.debugs, 1)
		assert.Contains(t, log.debugs[0], "default party")
	})

	t.Run("Unusable ratio", func(t *testing.T) {
		log := &recordingLogger{}
		e := New(DefaultParty, log)
		e.Allocate(&models.ParsedMessage{
			Amount:       dec("90"),
			SplitType:    models.SplitRatio,
			OtherParties: []string{"vyas"},
		})
		require.Len(t, log.debugs, 1)
		assert.Contains(t, log.debugs[0], "dividing equally")
	})

	t.Run("Named party stays quiet", func(t *testing.T) {
		log := &recordingLogger{}
		e := New(DefaultParty, log)
		e.Allocate(&models.ParsedMessage{
			Amount:       dec("300"),
			SplitType:    models.SplitEqual,
			OtherParties: []string{"ana"},
		})
		assert.Empty(t, log.debugs)
	})
}

func TestAllocateIsPure(t *testing.T) {
	e := testEngine()
	msg := &models.ParsedMessage{
		Amount:       dec("300"),
		SplitType:    models.SplitEqual,
		PaidBy:       "roommate",
		OtherParties: []string{"vyas"},
	}

	first := e.Allocate(msg)
	second := e.Allocate(msg)

	assert.True(t, first.MyAmount.Equal(second.MyAmount))
	require.Equal(t, len(first.PeerDebts), len(second.PeerDebts))
	for i := range first.PeerDebts {
		assert.Equal(t, first.PeerDebts[i].OtherParty, second.PeerDebts[i].OtherParty)
		assert.Equal(t, first.PeerDebts[i].Direction, second.PeerDebts[i].Direction)
		assert.True(t, first.PeerDebts[i].Amount.Equal(second.PeerDebts[i].Amount))
	}
}
