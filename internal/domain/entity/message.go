package entity

// MarkupDialect selects how the transport interprets a block's text.
type MarkupDialect string

const (
	DialectPlain MarkupDialect = "plain"
	// DialectRich is the chat platform's HTML subset (b, i, a, code).
	DialectRich MarkupDialect = "rich"
)

// MessageBlock is one outbound chat message.
type MessageBlock struct {
	Text                string        `json:"text"`
	Dialect             MarkupDialect `json:"markup_dialect"`
	SuppressLinkPreview bool          `json:"suppress_link_preview"`
}

// PlainBlock builds a plain-text block.
func PlainBlock(text string) MessageBlock {
	return MessageBlock{Text: text, Dialect: DialectPlain}
}

// RichBlock builds a rich-markup block.
func RichBlock(text string, suppressPreview bool) MessageBlock {
	return MessageBlock{Text: text, Dialect: DialectRich, SuppressLinkPreview: suppressPreview}
}

// WalletState reports whether a user has a wallet on record.
type WalletState string

const (
	NoWalletOnRecord WalletState = "NO_WALLET_ON_RECORD"
	WalletOnRecord   WalletState = "WALLET_ON_RECORD"
)
