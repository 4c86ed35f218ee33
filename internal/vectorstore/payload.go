// Package vectorstore defines the payload layout shared by every store
// implementation. The raw chunk content is duplicated under ContentKey, the
// designated field read back as retrieval context.
package vectorstore

import "confchat/internal/domain"

// ContentKey is the payload field holding the chunk's raw content.
const ContentKey = "content_text"

// Payload builds the vector-record payload mirroring a chunk's metadata.
func Payload(c domain.Chunk) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"topic":       c.Topic,
		"sub_topic":   c.SubTopic,
		"source_file": c.SourceFile,
		"source_url":  c.SourceURL,
		ContentKey:    c.Content,
	}
}

// ChunkFromPayload reconstructs a chunk from a stored payload. Unknown or
// missing fields are left zero.
func ChunkFromPayload(p map[string]any) domain.Chunk {
	var c domain.Chunk
	if v, ok := p["id"].(string); ok {
		c.ID = v
	}
	if v, ok := p["topic"].(string); ok {
		c.Topic = v
	}
	if v, ok := p["sub_topic"].(string); ok {
		c.SubTopic = v
	}
	if v, ok := p["source_file"].(string); ok {
		c.SourceFile = v
	}
	if v, ok := p["source_url"].(string); ok {
		c.SourceURL = v
	}
	if v, ok := p[ContentKey].(string); ok {
		c.Content = v
	}
	return c
}
