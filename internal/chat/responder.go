// Package chat implements the shopping assistant that answers free-text messages
// by spotting catalog products in them.
package chat

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/studentgear/internal/catalog"
	"github.com/hyperjump/studentgear/internal/models"
	"github.com/hyperjump/studentgear/pkg/utils"
)

// BuyKeywords mark a message as a purchase request.
var BuyKeywords = []string{"buy", "purchase", "where to buy", "i want", "order", "get"}

const (
	helpText    = "I can help you find student gear and direct you to marketplaces (Amazon/Flipkart). Ask me about any product or branch."
	defaultText = "I'm here to help — mention a product name or say 'buy' followed by the product and I'll show options."
)

// SnapshotSource provides the current catalog view.
type SnapshotSource interface {
	Snapshot() *catalog.Snapshot
}

// Responder answers chat messages.
type Responder struct {
	source SnapshotSource
	logger *zap.Logger
}

// NewResponder creates a responder over the given catalog.
func NewResponder(source SnapshotSource, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{source: source, logger: logger}
}

// Reply answers message. The first catalog key (in registration order) contained
// in the lowercased message selects the product.
func (r *Responder) Reply(message string) models.ChatReply {
	msg := strings.ToLower(strings.TrimSpace(message))
	snap := r.source.Snapshot()

	if p := findProduct(snap, msg); p != nil {
		if containsAny(msg, BuyKeywords) {
			r.logger.Debug("chat buy intent", zap.String("product", p.Name))
			return models.ChatReply{
				Text:      fmt.Sprintf("I found \"%s\" — I can open marketplace options for you. Click Buy to continue.", p.Name),
				Product:   p,
				BuyIntent: true,
			}
		}
		r.logger.Debug("chat product info", zap.String("product", p.Name))
		return models.ChatReply{
			Text:    fmt.Sprintf("\"%s\": %s — Price: ₹%s. Want to buy?", p.Name, p.Description, utils.FormatINR(p.Price)),
			Product: p,
		}
	}

	switch {
	case containsAny(msg, []string{"help", "how"}):
		return models.ChatReply{Text: helpText}
	case containsAny(msg, []string{"catalog", "products", "list"}):
		return models.ChatReply{Text: branchHint(snap)}
	default:
		return models.ChatReply{Text: defaultText}
	}
}

func findProduct(snap *catalog.Snapshot, msg string) *models.Product {
	if msg == "" {
		return nil
	}
	for _, key := range snap.Keys() {
		if strings.Contains(msg, key) {
			p, _ := snap.Lookup(key)
			return p
		}
	}
	return nil
}

func branchHint(snap *catalog.Snapshot) string {
	branches := snap.Branches()
	codes := make([]string, len(branches))
	for i, b := range branches {
		codes[i] = b.Code
	}
	return fmt.Sprintf("Tell me a branch (%s) or mention a product name and I will help you find it.", strings.Join(codes, ", "))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
