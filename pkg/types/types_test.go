package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerID_Validate(t *testing.T) {
	id := PeerID("12D3KooWRBhwfeP2Y9CDkFRBAZ1pmxUadH36TKuk3KtKm5XXP8mA")
	require.NoError(t, id.Validate())
	assert.Equal(t, "m5XXP8mA", id.ShortString())

	assert.ErrorIs(t, EmptyPeerID.Validate(), ErrEmptyPeerID)
	// 0、O、I、l 不在 Base58 字母表中
	assert.ErrorIs(t, PeerID("0OIl").Validate(), ErrInvalidPeerID)

	_, err := ParsePeerID("")
	assert.ErrorIs(t, err, ErrEmptyPeerID)
}

func TestBase58_RoundTrip(t *testing.T) {
	in := []byte{0, 0, 1, 2, 3, 255}
	s := Base58Encode(in)
	out, err := Base58Decode(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	assert.Equal(t, "", Base58Encode(nil))
}

func TestProtocolID_NameVersion(t *testing.T) {
	p := ProtocolID("/vac/waku/store/2.0.0-beta4")
	assert.Equal(t, "/vac/waku/store", p.Name())
	assert.Equal(t, "2.0.0-beta4", p.Version())
	assert.False(t, p.IsEmpty())
}

func TestPageDirection(t *testing.T) {
	assert.Equal(t, "backward", PageBackward.String())
	assert.Equal(t, "forward", PageForward.String())
	assert.NoError(t, PageForward.Validate())
	assert.ErrorIs(t, PageDirection(7).Validate(), ErrInvalidPageDirection)

	d, err := ParsePageDirection("")
	require.NoError(t, err)
	assert.Equal(t, PageBackward, d)
	d, err = ParsePageDirection("forward")
	require.NoError(t, err)
	assert.Equal(t, PageForward, d)
	_, err = ParsePageDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidPageDirection)
}

func TestTimeFilter_Validate(t *testing.T) {
	now := time.Now()
	assert.NoError(t, TimeFilter{Start: now.Add(-time.Hour), End: now}.Validate())
	assert.NoError(t, TimeFilter{End: now}.Validate())
	assert.ErrorIs(t, TimeFilter{Start: now, End: now.Add(-time.Second)}.Validate(), ErrInvalidTimeFilter)
}

func TestCursor_String(t *testing.T) {
	var c *Cursor
	assert.Equal(t, "<nil>", c.String())

	c = &Cursor{Digest: []byte{1, 2, 3}, PubsubTopic: "/waku/2/default-waku/proto", SenderTime: 42}
	assert.Contains(t, c.String(), "@42")
}
