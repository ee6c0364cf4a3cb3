package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidExport(t *testing.T) {
	html := `
	<html>
		<head><title>Test Notebook</title></head>
		<body>
			<div class="bookTitle">Test Book Title</div>
			<div class="authors">Last, First</div>
			<div class="noteText">First note</div>
			<div class="noteText">Second note</div>
		</body>
	</html>`

	result, err := Parse(html)
	require.NoError(t, err)
	assert.Equal(t, "Test Book Title", result.BookTitle)
	assert.Equal(t, "Last, First", result.Authors)
	assert.Equal(t, []string{"First note", "Second note"}, result.Notes)
}

func TestParseMissingTitle(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="noteText">First note</div>
		</body>
	</html>`

	_, err := Parse(html)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not find book title")
}

func TestParseNoNotes(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="bookTitle">Test Book Title</div>
		</body>
	</html>`

	_, err := Parse(html)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No notes found")
}

func TestParseEmptyTitleElement(t *testing.T) {
	html := `<html><body><div class="bookTitle"></div><div class="noteText">n</div></body></html>`

	_, err := Parse(html)
	require.Error(t, err)
}

func TestParseMissingAuthorsDegrades(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="bookTitle">Solo</div>
			<div class="noteText">Only note</div>
		</body>
	</html>`

	result, err := Parse(html)
	require.NoError(t, err)
	assert.Empty(t, result.Authors)
}

func TestParseSkipsBlankNotes(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="bookTitle">Book</div>
			<div class="noteText">   </div>
			<div class="noteText">Kept</div>
		</body>
	</html>`

	result, err := Parse(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kept"}, result.Notes)
}
