package line

// WebhookPayload is the Messaging API webhook body, trimmed to the fields
// the receiver acts on.
type WebhookPayload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     Source `json:"source"`
}

// Source identifies where an event came from. Type is "user" for 1:1 talk;
// group and room sources carry no individual respondent.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
	RoomID  string `json:"roomId"`
}

type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textMessages(text string) []TextMessage {
	return []TextMessage{{Type: "text", Text: text}}
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []TextMessage `json:"messages"`
}

type broadcastRequest struct {
	Messages []TextMessage `json:"messages"`
}
