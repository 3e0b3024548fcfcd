package text

// ReplacementRule defines a single cell replacement
type ReplacementRule struct {
	// FieldGlob selects the canonical fields the rule applies to. Empty matches every field.
	FieldGlob string

	// FromText is the text to replace
	FromText string

	// ToText is the replacement text
	ToText string
}

// CellReplacer rewrites mapped cell values before they are written
type CellReplacer interface {
	// ReplaceCell returns the rewritten value and the number of replacements made
	ReplaceCell(field, value string) (string, int)
}
