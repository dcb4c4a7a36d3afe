package chat

import "time"

type ConnectionStatus string

const (
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusError        ConnectionStatus = "error"
)

type MessageType string

const (
	MessageUserText  MessageType = "user_text"
	MessageUserAudio MessageType = "user_audio"
	MessageAIText    MessageType = "ai_text"
	MessageAIAudio   MessageType = "ai_audio"
)

// Session is one logical conversation context. The ID is generated by
// NewSessionID at creation time and never changes afterwards.
type Session struct {
	ID               string           `gorm:"primaryKey;type:varchar(255)" json:"id"`
	UserID           *string          `gorm:"type:varchar(255)" json:"user_id"`
	WebsocketURL     string           `gorm:"type:text;not null" json:"websocket_url"`
	APIToken         string           `gorm:"type:text;not null" json:"api_token"`
	ConnectionStatus ConnectionStatus `gorm:"type:varchar(16);not null" json:"connection_status"`
	CreatedAt        time.Time        `json:"created_at"`
	LastActivity     time.Time        `gorm:"not null" json:"last_activity"`
}

func (Session) TableName() string { return "chat_sessions" }

// Message is one conversation turn. SessionID is a soft reference: a row may
// point at a session that does not (yet) exist, so inserts never check it.
type Message struct {
	ID            uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     string      `gorm:"type:varchar(255);index;not null" json:"session_id"`
	MessageType   MessageType `gorm:"type:varchar(16);not null" json:"message_type"`
	Content       *string     `gorm:"type:text" json:"content"`
	Transcription *string     `gorm:"type:text" json:"transcription"`
	AudioDuration *Seconds    `gorm:"type:decimal(10,2)" json:"audio_duration"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }

// Recording is metadata for one stored audio asset. It is not linked to any
// particular message, only to a session, with the same soft reference rule.
type Recording struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  string    `gorm:"type:varchar(255);index;not null" json:"session_id"`
	FilePath   string    `gorm:"type:text;not null" json:"file_path"`
	Duration   Seconds   `gorm:"type:decimal(10,2);not null" json:"duration"`
	SampleRate int       `gorm:"not null" json:"sample_rate"`
	Channels   int       `gorm:"not null" json:"channels"`
	Format     string    `gorm:"type:varchar(10);not null" json:"format"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (Recording) TableName() string { return "audio_recordings" }
