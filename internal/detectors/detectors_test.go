package detectors

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textguard/textguard/internal/catalog"
	"github.com/textguard/textguard/internal/types"
)

func ofType(ts []types.ThreatInfo, tt types.ThreatType) []types.ThreatInfo {
	var out []types.ThreatInfo
	for _, t := range ts {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

func TestDetectAll_Empty(t *testing.T) {
	d := New(catalog.New())
	assert.Empty(t, d.DetectAll(""))
}

func TestDetectAll_Offsets(t *testing.T) {
	d := New(catalog.New())
	text := "연락처: test@example.com / 192.168.10.20"
	got := d.DetectAll(text)
	require.NotEmpty(t, got)
	for _, th := range got {
		require.True(t, th.Start >= 0 && th.Start <= th.End && th.End < len(text))
		assert.Equal(t, th.Value, text[th.Start:th.End+1])
	}
	emails := ofType(got, types.Email)
	require.Len(t, emails, 1)
	assert.Equal(t, "test@example.com", emails[0].Value)
	assert.Equal(t, strings.Index(text, "test@"), emails[0].Start)
}

func TestDetectAll_LuhnGatesCards(t *testing.T) {
	d := New(catalog.New())
	assert.Len(t, ofType(d.DetectAll("card 4111 1111 1111 1111"), types.CreditCard), 1)
	assert.Empty(t, ofType(d.DetectAll("card 4111-1111-1111-1112"), types.CreditCard))
	assert.Empty(t, ofType(d.DetectAll("card 4111111111111112"), types.CreditCard))
}

func TestDetectAll_MissingValidatorAccepts(t *testing.T) {
	c := catalog.NewEmpty()
	require.NoError(t, c.Add(catalog.Pattern{Type: types.Custom, Regex: regexp.MustCompile(`id-\d+`), NeedsValidation: true}))
	d := New(c)
	assert.Len(t, d.DetectAll("id-1 id-2"), 2)

	d.SetValidator(types.Custom, func(v string) bool { return strings.HasSuffix(v, "2") })
	got := d.DetectAll("id-1 id-2")
	require.Len(t, got, 1)
	assert.Equal(t, "id-2", got[0].Value)

	d.SetValidator(types.Custom, nil)
	assert.Len(t, d.DetectAll("id-1 id-2"), 2)
}

func TestDetectAll_SkipsEmptyMatches(t *testing.T) {
	c := catalog.NewEmpty()
	require.NoError(t, c.AddPattern(types.Custom, `x*`))
	got := New(c).DetectAll("abxxc")
	require.Len(t, got, 1)
	assert.Equal(t, "xx", got[0].Value)
	assert.Equal(t, 2, got[0].Start)
	assert.Equal(t, 3, got[0].End)
}

func TestDetectAll_NoDedupeAcrossPatterns(t *testing.T) {
	c := catalog.NewEmpty()
	require.NoError(t, c.AddPattern(types.Custom, `abc`, catalog.WithDescription("one")))
	require.NoError(t, c.AddPattern(types.Custom, `abc`, catalog.WithDescription("two")))
	got := New(c).DetectAll("abc")
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Description)
	assert.Equal(t, "two", got[1].Description)
}

func TestStrictValidators_BusinessNumber(t *testing.T) {
	d := New(catalog.New())
	assert.Len(t, ofType(d.DetectAll("사업자 123-45-67890"), types.BusinessNumber), 1)

	d.SetValidator(types.BusinessNumber, StrictValidators[types.BusinessNumber])
	assert.Empty(t, ofType(d.DetectAll("사업자 123-45-67890"), types.BusinessNumber))
	assert.Len(t, ofType(d.DetectAll("사업자 220-81-62517"), types.BusinessNumber), 1)
}

func TestValidatedTypes(t *testing.T) {
	d := New(catalog.New())
	assert.Equal(t, []types.ThreatType{types.CreditCard}, d.ValidatedTypes())

	d.SetValidator(types.BusinessNumber, func(string) bool { return true })
	assert.Equal(t, []types.ThreatType{types.BusinessNumber, types.CreditCard}, d.ValidatedTypes())

	d.SetValidator(types.CreditCard, nil)
	assert.Equal(t, []types.ThreatType{types.BusinessNumber}, d.ValidatedTypes())
}
