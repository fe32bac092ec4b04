package matchlist

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAddress_TruncatesToLow20Bytes(t *testing.T) {
	a := types.MustParseAddress("0x" + strings.Repeat("ff", 12) + "4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7")

	encoded := EncodeAddress(a)
	assert.Len(t, encoded, 42)
	assert.Equal(t, `\x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7`, encoded)
}

func TestEncodeTruncated_ShortValuesUnchanged(t *testing.T) {
	assert.Equal(t, `\xabcd`, EncodeTruncated([]byte{0xab, 0xcd}))
	assert.Equal(t, `\x`+strings.Repeat("01", 20), EncodeTruncated([]byte(strings.Repeat("\x01", 20))))
}

func TestListElement_VariablesOmitWildcards(t *testing.T) {
	l, err := ParseString(`[{"destinationdomain":["13372","13373"],"senderaddress":"0xc27980812e2e66491fd457d488509b7e04144b98"}]`)
	require.NoError(t, err)

	v := l.Elements()[0].Variables()
	assert.Nil(t, v.OriginDomain)
	assert.Nil(t, v.RecipientAddress)
	assert.Equal(t, []uint32{13372, 13373}, v.DestinationDomain)
	assert.Equal(t, []string{`\xc27980812e2e66491fd457d488509b7e04144b98`}, v.SenderAddress)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"destinationdomain":[13372,13373],"senderaddress":["\\xc27980812e2e66491fd457d488509b7e04144b98"]}`, string(data))
}

func TestVariables_EmptyEnumeratedIsEmitted(t *testing.T) {
	l, err := ParseString(`[{"origindomain":[]}]`)
	require.NoError(t, err)

	data, err := json.Marshal(l.Elements()[0].Variables())
	require.NoError(t, err)
	assert.JSONEq(t, `{"origindomain":[]}`, string(data))
}

func TestVariables_JSONRoundTrip(t *testing.T) {
	in := Variables{
		OriginDomain:     []uint32{},
		RecipientAddress: []string{`\x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7`},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Variables
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
	assert.NotNil(t, out.OriginDomain)
	assert.Nil(t, out.SenderAddress)
}

func TestQueryVariables_OnePayloadPerElement(t *testing.T) {
	l, err := ParseString(`[{"origindomain":1},{"destinationdomain":2},{"recipientaddress":"0x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7"}]`)
	require.NoError(t, err)

	payloads := l.QueryVariables(UnconstrainedSingle)
	require.Len(t, payloads, 3)
	assert.Equal(t, []uint32{1}, payloads[0].OriginDomain)
	assert.Equal(t, []uint32{2}, payloads[1].DestinationDomain)
	assert.Equal(t, []string{`\x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7`}, payloads[2].RecipientAddress)

	// Policy only affects unrestricted lists.
	assert.Len(t, l.QueryVariables(UnconstrainedSkip), 3)
}

func TestQueryVariables_UnrestrictedPolicy(t *testing.T) {
	var l MatchingList

	single := l.QueryVariables(UnconstrainedSingle)
	require.Len(t, single, 1)
	assert.True(t, single[0].Unconstrained())

	data, err := json.Marshal(single[0])
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	assert.Empty(t, l.QueryVariables(UnconstrainedSkip))
}

func TestParseUnconstrainedPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    UnconstrainedPolicy
		wantErr bool
	}{
		{input: "", want: UnconstrainedSingle},
		{input: "single", want: UnconstrainedSingle},
		{input: "SKIP", want: UnconstrainedSkip},
		{input: "none", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseUnconstrainedPolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(got.String()), got.String())
		})
	}
}

func TestMatchingList_MarshalJSON(t *testing.T) {
	l, err := ParseString(`[{"origindomain":1},{}]`)
	require.NoError(t, err)

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"origindomain":[1]},{}]`, string(data))

	data, err = json.Marshal(MatchingList{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
