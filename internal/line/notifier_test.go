package line

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFormBase = "https://docs.google.com/forms/d/e/FORM/viewform?usp=pp_url"
	testEntryID  = "entry.1391493516"
	testAppBase  = "https://wellbeing.example.com"
)

func TestFormURLPrefillsToken(t *testing.T) {
	n := NewNotifier(nil, testFormBase, testEntryID, testAppBase)
	assert.Equal(t,
		testFormBase+"&"+testEntryID+"=tok123",
		n.FormURL("tok123"),
	)

	// A base URL without a query string gets "?" instead of "&".
	plain := NewNotifier(nil, "https://forms.example.com/f", testEntryID, testAppBase)
	assert.Equal(t, "https://forms.example.com/f?"+testEntryID+"=tok123", plain.FormURL("tok123"))

	unconfigured := NewNotifier(nil, "", "", testAppBase)
	assert.Empty(t, unconfigured.FormURL("tok123"))
}

func TestNotifyLinksPrefersReply(t *testing.T) {
	client, calls := newFakeAPI(t, http.StatusOK)
	n := NewNotifier(client, testFormBase, testEntryID, testAppBase)

	n.NotifyLinks("U123", "reply-token", "Alice", "tok123")

	require.Len(t, *calls, 1)
	assert.Equal(t, "/message/reply", (*calls)[0].path)
}

func TestNotifyLinksPushesWithoutReplyToken(t *testing.T) {
	client, calls := newFakeAPI(t, http.StatusOK)
	n := NewNotifier(client, testFormBase, testEntryID, testAppBase)

	n.NotifyLinks("U123", "", "Alice", "tok123")

	require.Len(t, *calls, 1)
	assert.Equal(t, "/message/push", (*calls)[0].path)
	assert.Equal(t, "U123", (*calls)[0].body["to"])
}

func TestNotifyLinksSwallowsDeliveryFailure(t *testing.T) {
	client, _ := newFakeAPI(t, http.StatusInternalServerError)
	n := NewNotifier(client, testFormBase, testEntryID, testAppBase)

	// Must not panic or propagate: delivery is fire-and-forget.
	n.NotifyLinks("U123", "", "Alice", "tok123")
}

func TestLinksMessageContents(t *testing.T) {
	n := NewNotifier(nil, testFormBase, testEntryID, testAppBase)

	msg := n.linksMessage("Alice", "tok123")
	assert.Contains(t, msg, "Alice さん")
	assert.Contains(t, msg, n.FormURL("tok123"))
	assert.Contains(t, msg, testAppBase+"/user/tok123")

	noForm := NewNotifier(nil, "", "", testAppBase)
	msg = noForm.linksMessage("", "tok123")
	assert.Contains(t, msg, "こんにちは さん")
	assert.Contains(t, msg, testAppBase+"/user/tok123")
	assert.NotContains(t, msg, "日次フォーム")
}
