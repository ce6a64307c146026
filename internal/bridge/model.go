package bridge

import "strings"

// providerPrefix is the namespace token callers sometimes attach to model
// identifiers (e.g. "anthropic/claude-opus-4").
const providerPrefix = "anthropic/"

// DefaultAlias is returned for any identifier the table does not cover.
// Unknown and future model names are routed to the highest-capability tier
// on purpose; changing this to an error is a contract change, not a fix.
const DefaultAlias = AliasOpus

// aliasTable maps every accepted model identifier to its alias. Covers the
// canonical names, their provider-prefixed forms, and the bare alias words.
var aliasTable = map[string]ModelAlias{
	"claude-opus-4":   AliasOpus,
	"claude-sonnet-4": AliasSonnet,
	"claude-haiku-4":  AliasHaiku,

	providerPrefix + "claude-opus-4":   AliasOpus,
	providerPrefix + "claude-sonnet-4": AliasSonnet,
	providerPrefix + "claude-haiku-4":  AliasHaiku,

	"opus":   AliasOpus,
	"sonnet": AliasSonnet,
	"haiku":  AliasHaiku,
}

// ResolveModel normalizes an arbitrary model identifier to a ModelAlias.
// It never fails: exact lookup first, then a retry with the provider prefix
// stripped, then DefaultAlias.
func ResolveModel(model string) ModelAlias {
	if alias, ok := aliasTable[model]; ok {
		return alias
	}
	if alias, ok := aliasTable[strings.TrimPrefix(model, providerPrefix)]; ok {
		return alias
	}
	return DefaultAlias
}

// ModelEntry is one row of the alias table, for listings.
type ModelEntry struct {
	ID    string
	Alias ModelAlias
}

// CanonicalModels returns the canonical (unprefixed) model names and their
// aliases in tier order, highest capability first.
func CanonicalModels() []ModelEntry {
	return []ModelEntry{
		{ID: "claude-opus-4", Alias: AliasOpus},
		{ID: "claude-sonnet-4", Alias: AliasSonnet},
		{ID: "claude-haiku-4", Alias: AliasHaiku},
	}
}
