package reconcile

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Field aliases accepted from the oracle, French keys first.
var (
	keysClientName  = []string{"entreprise_cliente", "client_name", "client", "company"}
	keysProductType = []string{"type_produit", "product_type"}
	keysDescription = []string{"nature_produit", "product", "produit", "description"}
	keysQuantity    = []string{"quantite", "quantité", "quantity", "qty"}
	keysUnit        = []string{"unite", "unité", "unit"}
	keysUnitPrice   = []string{"prix_unitaire", "unit_price"}
	keysTotalPrice  = []string{"prix_total", "total_price"}
	keysCurrency    = []string{"devise", "currency"}
	keysRequested   = []string{"date_commande", "requested_date", "order_date"}
	keysDelivery    = []string{"date_livraison", "delivery_date"}
	keysReference   = []string{"numero_commande", "order_reference", "reference"}
	keysNotes       = []string{"informations_supplementaires", "notes"}
	keysConfidence  = []string{"confiance", "confidence"}
	keysIsOrder     = []string{"est_bon_commande", "is_purchase_order"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

var numberToken = regexp.MustCompile(`[-+]?\d[\d\s\x{00A0}\x{202F}.,']*(?:[eE][-+]?\d+)?`)

func lookup(raw model.RawExtraction, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		for _, alias := range keys {
			if strings.EqualFold(strings.TrimSpace(k), alias) {
				return v, true
			}
		}
	}
	return nil, false
}

func stringField(raw model.RawExtraction, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// numberField returns the parsed value, and ok=false with present=true when
// the field exists but cannot be read as a number.
func numberField(raw model.RawExtraction, keys []string) (value float64, ok, present bool) {
	v, found := lookup(raw, keys)
	if !found {
		return 0, false, false
	}
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0), true
	case float32:
		f := float64(t)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0), true
	case int:
		return float64(t), true, true
	case int64:
		return float64(t), true, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil, true
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, false, false
		}
		f, err := parseNumber(t)
		return f, err == nil, true
	}
	return 0, false, true
}

// parseNumber reads the first numeric token of s, accepting space and
// apostrophe thousand separators, a comma decimal separator and an exponent.
func parseNumber(s string) (float64, error) {
	token := numberToken.FindString(s)
	if token == "" {
		return 0, strconv.ErrSyntax
	}
	token = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f', '\'':
			return -1
		}
		return r
	}, token)
	exponent := ""
	if i := strings.IndexAny(token, "eE"); i >= 0 {
		token, exponent = token[:i], token[i:]
	}
	token = strings.TrimRight(token, ".,")

	commas := strings.Count(token, ",")
	dots := strings.Count(token, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(token, ",") > strings.LastIndex(token, ".") {
			token = strings.ReplaceAll(token, ".", "")
			token = strings.Replace(token, ",", ".", 1)
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case commas > 1:
		token = strings.ReplaceAll(token, ",", "")
	case commas == 1:
		if i := strings.Index(token, ","); len(token)-i-1 == 3 && strings.TrimLeft(token[:i], "+-0") != "" {
			token = strings.Replace(token, ",", "", 1)
		} else {
			token = strings.Replace(token, ",", ".", 1)
		}
	case dots > 1:
		token = strings.ReplaceAll(token, ".", "")
	}
	return strconv.ParseFloat(token+exponent, 64)
}

func dateField(raw model.RawExtraction, keys []string) *time.Time {
	s := stringField(raw, keys)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// boolField reports the flag value and whether it was explicitly given.
func boolField(raw model.RawExtraction, keys []string) (value, present bool) {
	v, ok := lookup(raw, keys)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "oui", "yes", "1", "vrai":
			return true, true
		case "false", "non", "no", "0", "faux":
			return false, true
		}
	}
	return false, false
}

// confidenceField clamps the oracle confidence to [0,100]. Fractions below 1
// are read as ratios.
func confidenceField(raw model.RawExtraction) int {
	v, ok, _ := numberField(raw, keysConfidence)
	if !ok {
		return 0
	}
	if v > 0 && v < 1 {
		v *= 100
	}
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
