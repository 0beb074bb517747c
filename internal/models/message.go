package models

// Message is a rendered chat message, independent of the platform wire format
type Message struct {
	// Content is the plain text part of the message
	Content string

	// Embed is an optional rich block
	Embed *Embed
}

// Embed is a rich message block
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
}

// EmbedField is one titled entry of an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}
