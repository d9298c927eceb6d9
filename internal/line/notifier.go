package line

import (
	"fmt"
	"log"
	"strings"
)

// Notifier sends each respondent their two personal links: the prefilled
// survey form and their dashboard. Delivery is fire-and-forget — failures are
// logged and never affect the inbound webhook's acknowledgement.
type Notifier struct {
	client      *Client
	formBaseURL string
	formEntryID string
	appBaseURL  string
}

func NewNotifier(client *Client, formBaseURL, formEntryID, appBaseURL string) *Notifier {
	return &Notifier{
		client:      client,
		formBaseURL: formBaseURL,
		formEntryID: formEntryID,
		appBaseURL:  appBaseURL,
	}
}

// FormURL prefills the token question with the respondent's capability
// token. Empty when the form is not configured.
func (n *Notifier) FormURL(token string) string {
	if n.formBaseURL == "" || n.formEntryID == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(n.formBaseURL, "?") {
		sep = "&"
	}
	return n.formBaseURL + sep + n.formEntryID + "=" + token
}

func (n *Notifier) DashboardURL(token string) string {
	return n.appBaseURL + "/user/" + token
}

// NotifyLinks delivers the URLs. A non-empty reply token uses the reply API,
// the most reliable path right after a follow event; everything else goes
// out as a push.
func (n *Notifier) NotifyLinks(userID, replyToken, displayName, token string) {
	msg := n.linksMessage(displayName, token)

	var err error
	if replyToken != "" {
		err = n.client.ReplyText(replyToken, msg)
	} else {
		err = n.client.PushText(userID, msg)
	}
	if err != nil {
		log.Printf("[line] send failed for %s: %v", userID, err)
	}
}

func (n *Notifier) linksMessage(displayName, token string) string {
	name := displayName
	if name == "" {
		name = "こんにちは"
	}

	formURL := n.FormURL(token)
	dashboardURL := n.DashboardURL(token)

	if formURL == "" {
		return fmt.Sprintf(
			"%s さん、あなたのダッシュボードはこちらです👇\n%s\n\n（フォームURLは未設定のため送れませんでした。管理者に連絡してください）",
			name, dashboardURL,
		)
	}
	return fmt.Sprintf(
		"%s さん、以下のURLをご利用ください👇\n\n📋 日次フォーム\n%s\n\n📊 あなたのダッシュボード\n%s\n\n※ フォームの『ユーザーID』欄は自動入力されます。変更せずに送信してください。",
		name, formURL, dashboardURL,
	)
}
