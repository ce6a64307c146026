package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveModelCanonicalNames(t *testing.T) {
	require.Equal(t, AliasOpus, ResolveModel("claude-opus-4"))
	require.Equal(t, AliasSonnet, ResolveModel("claude-sonnet-4"))
	require.Equal(t, AliasHaiku, ResolveModel("claude-haiku-4"))
}

func TestResolveModelProviderPrefixedNames(t *testing.T) {
	require.Equal(t, AliasOpus, ResolveModel("anthropic/claude-opus-4"))
	require.Equal(t, AliasSonnet, ResolveModel("anthropic/claude-sonnet-4"))
	require.Equal(t, AliasHaiku, ResolveModel("anthropic/claude-haiku-4"))
}

func TestResolveModelBareAliases(t *testing.T) {
	require.Equal(t, AliasOpus, ResolveModel("opus"))
	require.Equal(t, AliasSonnet, ResolveModel("sonnet"))
	require.Equal(t, AliasHaiku, ResolveModel("haiku"))
}

func TestResolveModelPrefixedAlias(t *testing.T) {
	// Not in the table verbatim; matches after prefix stripping.
	require.Equal(t, AliasSonnet, ResolveModel("anthropic/sonnet"))
}

func TestResolveModelUnknownDefaultsToOpus(t *testing.T) {
	require.Equal(t, AliasOpus, ResolveModel("gpt-4o"))
	require.Equal(t, AliasOpus, ResolveModel("anthropic/claude-next"))
	require.Equal(t, AliasOpus, ResolveModel(""))
}

func TestCanonicalModelsCoversClosedAliasSet(t *testing.T) {
	entries := CanonicalModels()
	require.Len(t, entries, 3)

	seen := map[ModelAlias]bool{}
	for _, entry := range entries {
		require.Equal(t, entry.Alias, ResolveModel(entry.ID))
		seen[entry.Alias] = true
	}
	require.True(t, seen[AliasOpus])
	require.True(t, seen[AliasSonnet])
	require.True(t, seen[AliasHaiku])
}
