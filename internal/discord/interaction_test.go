package discord

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeInteraction(t *testing.T, body string) Interaction {
	t.Helper()
	var i Interaction
	require.NoError(t, json.Unmarshal([]byte(body), &i))
	return i
}

func TestUserID(t *testing.T) {
	guild := decodeInteraction(t, `{"type":2,"member":{"user":{"id":"g1"}},"user":{"id":"ignored"}}`)
	assert.Equal(t, "g1", guild.UserID())

	dm := decodeInteraction(t, `{"type":2,"user":{"id":"d1"}}`)
	assert.Equal(t, "d1", dm.UserID())

	assert.Equal(t, "", Interaction{}.UserID())
}

func TestStringOption(t *testing.T) {
	i := decodeInteraction(t, `{"type":2,"data":{"name":"submit","options":[
		{"name":"objective","type":3,"value":"  Guitar "},
		{"name":"count","type":4,"value":3}
	]}}`)
	assert.Equal(t, "Guitar", i.Data.StringOption("objective"))
	assert.Equal(t, "", i.Data.StringOption("count"))
	assert.Equal(t, "", i.Data.StringOption("missing"))

	var nilData *CommandData
	assert.Equal(t, "", nilData.StringOption("objective"))
}

func TestAttachmentOption(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantURL string
	}{
		{
			name:    "inline value",
			body:    `{"type":2,"data":{"name":"submit","options":[{"name":"image","type":11,"value":{"id":"a1","url":"https://cdn/inline.png"}}]}}`,
			wantURL: "https://cdn/inline.png",
		},
		{
			name:    "resolved attachments",
			body:    `{"type":2,"data":{"name":"submit","options":[{"name":"image","type":11,"value":"a1"}],"resolved":{"attachments":{"a1":{"id":"a1","url":"https://cdn/resolved.png"}}}}}`,
			wantURL: "https://cdn/resolved.png",
		},
		{
			name:    "top-level attachments",
			body:    `{"type":2,"data":{"name":"submit","options":[{"name":"image","type":11,"value":"a1"}]},"attachments":[{"id":"a0","url":"https://cdn/other.png"},{"id":"a1","url":"https://cdn/top.png"}]}`,
			wantURL: "https://cdn/top.png",
		},
		{
			name: "unknown id",
			body: `{"type":2,"data":{"name":"submit","options":[{"name":"image","type":11,"value":"zz"}],"resolved":{"attachments":{}}}}`,
		},
		{
			name: "missing option",
			body: `{"type":2,"data":{"name":"submit","options":[]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := decodeInteraction(t, tt.body)
			att, ok := i.AttachmentOption("image")
			assert.Equal(t, tt.wantURL != "", ok)
			assert.Equal(t, tt.wantURL, att.URL)
		})
	}
}

func TestReplyFlags(t *testing.T) {
	private, err := json.Marshal(Reply("hi", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":4,"data":{"content":"hi","flags":64}}`, string(private))

	shared, err := json.Marshal(Reply("hi", false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":4,"data":{"content":"hi"}}`, string(shared))

	pong, err := json.Marshal(Pong())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":1}`, string(pong))
}

func TestVerifySignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	parsed, err := ParsePublicKey(hex.EncodeToString(pub))
	require.NoError(t, err)

	body := []byte(`{"type":1}`)
	ts := "1700000000"
	sig := hex.EncodeToString(ed25519.Sign(priv, append([]byte(ts), body...)))

	assert.NoError(t, VerifySignature(parsed, sig, ts, body))
	assert.ErrorIs(t, VerifySignature(parsed, sig, "1700000001", body), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(parsed, sig, ts, []byte(`{"type":2}`)), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(parsed, "zz", ts, body), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(parsed, sig, "", body), ErrInvalidSignature)

	_, err = ParsePublicKey("abcd")
	assert.Error(t, err)
	_, err = ParsePublicKey("not hex")
	assert.Error(t, err)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "<t:1700000000:R>", RelativeTime(time.Unix(1700000000, 0)))
	assert.Equal(t, "<@42>", Mention("42"))
}
