package modseq

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordanvance/modseq/internal/compatdb"
	"github.com/jordanvance/modseq/internal/semver"
)

// writeMod creates a mod folder under root with a manifest and, when
// entryDll is non-empty, a stub assembly file.
func writeMod(t *testing.T, root, folder, manifest, entryDll string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifestFilename), []byte(manifest), 0o644))
	if entryDll != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, entryDll), []byte("stub"), 0o644))
	}
}

func TestLoadEndToEnd(t *testing.T) {
	root := t.TempDir()

	writeMod(t, root, "SimpleMod",
		`{"Name": "Simple Mod", "UniqueID": "com.example.simple", "Version": "1.2.0", "EntryDll": "Mod.dll"}`,
		"Mod.dll")

	// Distributed with an extra wrapper folder; discovery must unwrap it.
	writeMod(t, root, filepath.Join("Wrapped", "inner"),
		`{"Name": "Wrapped Mod", "UniqueID": "com.example.wrapped", "Version": "2.0.0", "EntryDll": "Wrapped.dll"}`,
		"Wrapped.dll")

	writeMod(t, root, "PackFor",
		`{"Name": "Simple Pack", "UniqueID": "com.example.pack", "Version": "1.0.0", "ContentPackFor": {"UniqueID": "com.example.simple"}}`,
		"")

	require.NoError(t, os.Mkdir(filepath.Join(root, "NoManifest"), 0o755))

	mods, err := Load(root, WithAPIVersion(semver.MustParse("4.0.0")))
	require.NoError(t, err)

	// Conservation: every discovered folder yields exactly one record.
	require.Len(t, mods, 4)

	byName := map[string]*ModMetadata{}
	position := map[string]int{}
	for i, m := range mods {
		byName[m.DisplayName] = m
		position[m.DisplayName] = i
	}

	assert.Equal(t, Found, byName["Simple Mod"].Status)
	assert.Equal(t, Found, byName["Wrapped Mod"].Status)
	assert.Equal(t, Found, byName["Simple Pack"].Status)
	assert.Less(t, position["Simple Mod"], position["Simple Pack"],
		"a content pack sorts after its parent")

	noManifest := byName["NoManifest"]
	require.NotNil(t, noManifest)
	assert.Equal(t, Failed, noManifest.Status)
	assert.Equal(t, "it doesn't have a manifest.", noManifest.Error)
	assert.Same(t, noManifest, mods[len(mods)-1], "loader failures sort to the end")
}

func TestLoadWithCompatibilityDatabase(t *testing.T) {
	root := t.TempDir()
	writeMod(t, root, "OldMod",
		`{"Name": "Old Mod", "UniqueID": "com.example.old", "Version": "1.0.0", "EntryDll": "Mod.dll"}`,
		"Mod.dll")

	db, err := compatdb.Parse([]byte(`{
		"com.example.old": {"status": "Obsolete", "reason_phrase": "the game includes it now"}
	}`))
	require.NoError(t, err)

	mods, err := Load(root,
		WithAPIVersion(semver.MustParse("4.0.0")),
		WithCompatibilityDatabase(db),
		WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	require.Len(t, mods, 1)
	assert.Equal(t, Failed, mods[0].Status)
	assert.Equal(t, "it's obsolete: the game includes it now", mods[0].Error)
}

func TestLoadEmptyRoot(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorIs(t, err, ErrRootUnreadable)
}

func TestLoadDeterminism(t *testing.T) {
	root := t.TempDir()
	writeMod(t, root, "A",
		`{"Name": "A", "UniqueID": "a", "Version": "1.0.0", "EntryDll": "Mod.dll", "Dependencies": [{"UniqueID": "b"}]}`,
		"Mod.dll")
	writeMod(t, root, "B",
		`{"Name": "B", "UniqueID": "b", "Version": "1.0.0", "EntryDll": "Mod.dll"}`,
		"Mod.dll")

	run := func() []string {
		mods, err := Load(root, WithAPIVersion(semver.MustParse("4.0.0")))
		require.NoError(t, err)
		return orderOf(mods)
	}

	first := run()
	assert.Equal(t, []string{"B", "A"}, first)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Found", Found.String())
	assert.Equal(t, "Failed", Failed.String())
}
