package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tmpl := Parse("Hello (), your request was {[approved][denied]}.")

	require.Equal(t, []Part{
		{Kind: PartText, Text: "Hello "},
		{Kind: PartInput},
		{Kind: PartText, Text: ", your request was "},
		{Kind: PartChoice, Options: []string{"approved", "denied"}},
		{Kind: PartText, Text: "."},
	}, tmpl.Parts)
	require.Equal(t, 2, tmpl.Placeholders())
}

func TestParse_SingleOptionAndAdjacentTokens(t *testing.T) {
	tmpl := Parse("{[only]}()()")

	require.Equal(t, []Part{
		{Kind: PartChoice, Options: []string{"only"}},
		{Kind: PartInput},
		{Kind: PartInput},
	}, tmpl.Parts)
}

func TestParse_IncompleteTokensStayLiteral(t *testing.T) {
	tmpl := Parse("see {[draft and (x) and [a]")

	require.Equal(t, []Part{{Kind: PartText, Text: "see {[draft and (x) and [a]"}}, tmpl.Parts)
	require.Zero(t, tmpl.Placeholders())
}

func TestParse_Empty(t *testing.T) {
	require.Empty(t, Parse("").Parts)
}

func TestRenderDefaults(t *testing.T) {
	tmpl := Parse("Dear (), status: {[open][closed][pending]}.")

	require.Equal(t, []string{"", "", "", "open", ""}, tmpl.Defaults())
	require.Equal(t, "Dear , status: open.", tmpl.RenderDefaults(nil))
	require.Equal(t, "Dear Ana, status: pending.", tmpl.RenderDefaults(map[int]string{1: "Ana", 3: "pending"}))
}

func TestRender_IgnoresValuesOnText(t *testing.T) {
	tmpl := Parse("A()B")

	require.Equal(t, "AxB", tmpl.Render(map[int]string{0: "ignored", 1: "x", 2: "ignored"}))
	require.Equal(t, "AB", tmpl.Render(nil))
}

func TestNameFromFilename(t *testing.T) {
	name, err := NameFromFilename("Welcome reply.txt")
	require.NoError(t, err)
	require.Equal(t, "Welcome reply", name)

	name, err = NameFromFilename(`C:\scripts\closing.TXT`)
	require.NoError(t, err)
	require.Equal(t, "closing", name)

	_, err = NameFromFilename("notes.md")
	require.Error(t, err)

	_, err = NameFromFilename(".txt")
	require.Error(t, err)
}
