package reconcile

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

func testMessage(id, text string) model.InboundMessage {
	return model.InboundMessage{
		Channel:    model.ChannelWhatsApp,
		Sender:     "whatsapp:+212600000001",
		MessageID:  id,
		Text:       text,
		ReceivedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"5000", 5000},
		{"10 000", 10000},
		{"5000 pièces", 5000},
		{"0,15", 0.15},
		{"12,5", 12.5},
		{"10,000", 10000},
		{"1.500,50", 1500.5},
		{"1,500.50", 1500.5},
		{"1 500 MAD", 1500},
		{"environ 300", 300},
		{"1e20", 1e20},
		{"2.5E3 sachets", 2500},
		{"1,5e3", 1500},
	}
	for _, tc := range cases {
		got, err := parseNumber(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}

	_, err := parseNumber("beaucoup")
	assert.Error(t, err)
}

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer("pièces", "mad", nil)
	msg := testMessage("W1", "bghit 5000 sachets fond plat")

	c, err := n.Normalize(msg, model.RawExtraction{
		"nature_produit":     "sachets fond plat",
		"quantite":           "5 000",
		"entreprise_cliente": "  Restaurant Salah Eddine ",
		"confiance":          "70%",
	})
	require.NoError(t, err)

	assert.Equal(t, "Restaurant Salah Eddine", c.ClientName)
	assert.Equal(t, model.ProductFlatBottomSachet, c.ProductType)
	assert.Equal(t, "sachets fond plat", c.Description)
	require.NotNil(t, c.Quantity)
	assert.Equal(t, 5000.0, *c.Quantity)
	assert.Equal(t, "pièces", c.Unit)
	assert.True(t, c.UnitDefaulted)
	assert.Equal(t, "MAD", c.Currency)
	assert.True(t, c.CurrencyDefaulted)
	assert.Equal(t, 70, c.Confidence)
	require.NotNil(t, c.RequestedDate)
	assert.True(t, c.RequestedDate.Equal(msg.ReceivedAt))
	assert.False(t, c.IsRenewal)
}

func TestNormalizeCoercion(t *testing.T) {
	n := NewNormalizer("pièces", "MAD", nil)

	t.Run("confidence clamped", func(t *testing.T) {
		cases := map[any]int{
			150.0: 100, -4.0: 0, 0.7: 70, "85": 85, "n/a": 0,
			1e20: 100, -1e20: 0, float32(1e30): 100, float32(0.5): 50, "1e20": 100,
		}
		for raw, want := range cases {
			c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{"quantite": 1.0, "confiance": raw})
			require.NoError(t, err)
			assert.Equal(t, want, c.Confidence, "confidence %v", raw)
		}
	})

	t.Run("non finite confidence ignored", func(t *testing.T) {
		for _, raw := range []any{math.NaN(), math.Inf(1), float32(math.Inf(-1)), float32(math.NaN())} {
			c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{"quantite": 1.0, "confiance": raw})
			require.NoError(t, err)
			assert.Equal(t, 0, c.Confidence, "confidence %v", raw)
		}
	})

	t.Run("json numbers", func(t *testing.T) {
		c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{
			"quantity":   json.Number("250"),
			"unit_price": json.Number("1.2"),
			"currency":   "eur",
			"unit":       "cartons",
		})
		require.NoError(t, err)
		assert.Equal(t, 250.0, *c.Quantity)
		assert.Equal(t, 1.2, *c.UnitPrice)
		assert.Equal(t, "EUR", c.Currency)
		assert.False(t, c.CurrencyDefaulted)
		assert.Equal(t, "cartons", c.Unit)
		assert.False(t, c.UnitDefaulted)
	})

	t.Run("unparsable quantity flagged", func(t *testing.T) {
		c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{"produit": "sacs", "quantite": "beaucoup"})
		require.NoError(t, err)
		assert.Nil(t, c.Quantity)
		assert.True(t, c.QuantityUnparsable)

		c, err = n.Normalize(testMessage("m", ""), model.RawExtraction{"produit": "sacs", "quantite": -40})
		require.NoError(t, err)
		assert.Nil(t, c.Quantity)
		assert.True(t, c.QuantityUnparsable)
	})

	t.Run("zero quantity absent", func(t *testing.T) {
		c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{"produit": "sacs", "quantite": 0})
		require.NoError(t, err)
		assert.Nil(t, c.Quantity)
		assert.False(t, c.QuantityUnparsable)
	})

	t.Run("dates", func(t *testing.T) {
		c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{
			"quantite":       10,
			"date_commande":  "15/03/2024",
			"date_livraison": "2024-04-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", c.RequestedDate.Format("2006-01-02"))
		assert.Equal(t, "2024-04-01", c.DeliveryDate.Format("2006-01-02"))
	})

	t.Run("null values are absent", func(t *testing.T) {
		c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{
			"quantite":      12,
			"prix_unitaire": nil,
			"type_produit":  nil,
		})
		require.NoError(t, err)
		assert.Nil(t, c.UnitPrice)
		assert.Empty(t, c.ProductType)
	})

	t.Run("type only", func(t *testing.T) {
		c, err := n.Normalize(testMessage("m", ""), model.RawExtraction{"type_produit": "Sac fond carré avec poignées plates"})
		require.NoError(t, err)
		assert.Equal(t, model.ProductSquareBottomFlat, c.ProductType)
		assert.Equal(t, "Sac fond carré avec poignées plates", c.Description)
	})
}

func TestNormalizeRejections(t *testing.T) {
	n := NewNormalizer("pièces", "MAD", nil)

	_, err := n.Normalize(testMessage("m", "bonjour"), model.RawExtraction{})
	require.ErrorIs(t, err, domainErrors.ErrMalformedCandidate)

	_, err = n.Normalize(testMessage("m", "bonjour"), model.RawExtraction{"entreprise_cliente": "Café Atlas", "confiance": 90})
	require.ErrorIs(t, err, domainErrors.ErrMalformedCandidate)

	_, err = n.Normalize(testMessage("m", "facture"), model.RawExtraction{"quantite": 3, "est_bon_commande": false})
	require.ErrorIs(t, err, domainErrors.ErrNotPurchaseOrder)
}

func TestNormalizeRenewalCue(t *testing.T) {
	n := NewNormalizer("pièces", "MAD", NewCueMatcher([]string{"pareil que avant"}))

	c, err := n.Normalize(testMessage("m", "kif dima"), model.RawExtraction{})
	require.NoError(t, err)
	assert.True(t, c.IsRenewal)
	assert.False(t, c.Usable())

	c, err = n.Normalize(testMessage("m", "Bonjour, PAREIL que avant svp"), model.RawExtraction{"est_bon_commande": "non"})
	require.NoError(t, err, "renewal cue wins over a negative purchase order flag")
	assert.True(t, c.IsRenewal)

	subject := testMessage("m", "")
	subject.Subject = "Commande comme d'habitude"
	c, err = n.Normalize(subject, model.RawExtraction{"quantite": 100})
	require.NoError(t, err)
	assert.True(t, c.IsRenewal)
}
