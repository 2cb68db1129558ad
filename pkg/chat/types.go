// Package chat contains the domain models shared by the chat function handlers.
package chat

// Room is a conversation container. Participants is the authoritative member
// list; it gates both notification fan-out and object purges.
type Room struct {
	Participants []string `firestore:"participants" json:"participants"`
}

// Message is a single chat entry within a room. Both fields are optional in
// the stored document.
type Message struct {
	SenderID string `firestore:"senderId" json:"senderId"`
	Text     string `firestore:"text" json:"text"`
}

// UserProfile holds the per-user fields the handlers read. FCMToken is empty
// when the user has no registered device.
type UserProfile struct {
	FirstName string `firestore:"firstName" json:"firstName"`
	LastName  string `firestore:"lastName" json:"lastName"`
	FCMToken  string `firestore:"fcmToken" json:"fcmToken"`
}

// MessageCreatedEvent is the trigger payload delivered when a message document
// is created. Exists is false when the document was already gone by the time
// the trigger fired; the handler treats that as a no-op.
type MessageCreatedEvent struct {
	RoomID    string  `json:"roomId"`
	MessageID string  `json:"messageId"`
	Exists    bool    `json:"exists"`
	Message   Message `json:"message"`
}

// NotificationContent is the user-visible part of a push notification.
type NotificationContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
