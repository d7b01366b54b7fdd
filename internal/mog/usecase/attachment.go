package usecase

import (
	"os"
	"time"

	"mog/internal/mog/domain/model"
)

// AttachmentBuilder produces the auto-touch overlay.
type AttachmentBuilder struct {
	Enabled  bool
	Now      func() time.Time
	Hostname func() (string, error)
}

// NewAttachmentBuilder uses the wall clock and the host name of this machine.
func NewAttachmentBuilder(enabled bool) *AttachmentBuilder {
	return &AttachmentBuilder{
		Enabled:  enabled,
		Now:      time.Now,
		Hostname: os.Hostname,
	}
}

// Build returns nil when disabled.
func (b *AttachmentBuilder) Build() *model.Attachment {
	if b == nil || !b.Enabled {
		return nil
	}
	now := b.Now()
	return &model.Attachment{
		CreatedAt: now,
		UpdatedAt: now,
		Authority: b.authority(),
	}
}

func (b *AttachmentBuilder) authority() string {
	if b.Hostname != nil {
		if host, err := b.Hostname(); err == nil && host != "" {
			return host
		}
	}
	return os.Getenv("HOSTNAME")
}
