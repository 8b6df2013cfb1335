package entities

import "time"

// KnowledgeChunk is the atomic retrievable unit of the knowledge base.
// Embedding holds little-endian float32 bytes; a nil/empty value means the
// embedding backend was unavailable at ingestion time and the chunk is only
// reachable through lexical fallback search.
type KnowledgeChunk struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	Content    string         `gorm:"not null" json:"content"`
	Category   string         `gorm:"size:50;index" json:"category"`
	SourceFile string         `gorm:"size:255;index" json:"source_file"`
	Metadata   map[string]any `gorm:"serializer:json" json:"metadata"`
	Embedding  []byte         `json:"-"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (KnowledgeChunk) TableName() string { return "knowledge_chunks" }
