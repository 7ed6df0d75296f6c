package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

func testLayout() TableLayout {
	return TableLayout{
		PersonColumn: "isim",
		DateColumn:   "Tarih",
		DateLayouts:  []string{"2006-01-02", "02.01.2006", "2006-01-02 15:04:05"},
	}
}

const sampleCSV = "\ufeffisim,Tarih,Kitap,Spor,Unnamed: 4\n" +
	"Ali,2024-01-01,1,0,\n" +
	"Veli,2024-01-01,1.0,1,\n" +
	"\n" +
	"Ali,02.01.2024,,NaN,\n" +
	"Toplam,2024-01-01,2,1,\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSV(t *testing.T) {
	t.Run("Infers habit columns and normalizes cells", func(t *testing.T) {
		table, err := ParseCSV(strings.NewReader(sampleCSV), testLayout())
		require.NoError(t, err)

		assert.Equal(t, []string{"Kitap", "Spor"}, table.Habits)
		require.Len(t, table.Records, 4)

		assert.Equal(t, "Ali", table.Records[0].Person)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), table.Records[0].Date)
		assert.Equal(t, []int{1, 0}, table.Records[0].Values)

		assert.Equal(t, []int{1, 1}, table.Records[1].Values)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), table.Records[2].Date)
		assert.Equal(t, []int{0, 0}, table.Records[2].Values)
		assert.Equal(t, "Toplam", table.Records[3].Person)
	})

	t.Run("Configured habits select and order columns", func(t *testing.T) {
		layout := testLayout()
		layout.Habits = []string{"spor"}

		table, err := ParseCSV(strings.NewReader(sampleCSV), layout)
		require.NoError(t, err)

		assert.Equal(t, []string{"spor"}, table.Habits)
		assert.Equal(t, []int{0}, table.Records[0].Values)
		assert.Equal(t, []int{1}, table.Records[1].Values)
	})

	t.Run("Missing person column", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("name,Tarih,Kitap\nAli,2024-01-01,1\n"), testLayout())

		var malformed *domain.MalformedInputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "isim", malformed.Column)
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	})

	t.Run("Missing configured habit column", func(t *testing.T) {
		layout := testLayout()
		layout.Habits = []string{"Yoga"}

		_, err := ParseCSV(strings.NewReader(sampleCSV), layout)
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	})

	t.Run("Empty input has no header", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader(""), testLayout())
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	})

	t.Run("Unparseable date reports the line", func(t *testing.T) {
		input := "isim,Tarih,Kitap\nAli,2024-01-01,1\nVeli,yesterday,1\n"

		_, err := ParseCSV(strings.NewReader(input), testLayout())

		var malformed *domain.MalformedInputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 3, malformed.Line)
		assert.Equal(t, "Tarih", malformed.Column)
	})

	t.Run("Non numeric flag", func(t *testing.T) {
		input := "isim,Tarih,Kitap\nAli,2024-01-01,yes\n"

		_, err := ParseCSV(strings.NewReader(input), testLayout())

		var malformed *domain.MalformedInputError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "Kitap", malformed.Column)
	})

	t.Run("Fractional flag is rejected", func(t *testing.T) {
		input := "isim,Tarih,Kitap\nAli,2024-01-01,0.5\n"

		_, err := ParseCSV(strings.NewReader(input), testLayout())
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	})

	t.Run("Out of range flag is rejected", func(t *testing.T) {
		for _, cell := range []string{"1e300", "-1e300", "99999999999", "3000000000.0"} {
			input := "isim,Tarih,Kitap\nAli,2024-01-01," + cell + "\n"

			_, err := ParseCSV(strings.NewReader(input), testLayout())

			var malformed *domain.MalformedInputError
			require.ErrorAs(t, err, &malformed, cell)
			assert.Equal(t, "Kitap", malformed.Column)
			assert.Contains(t, malformed.Reason, "out of range")
		}
	})

	t.Run("Large whole number within range is accepted", func(t *testing.T) {
		input := "isim,Tarih,Kitap\nAli,2024-01-01,1e3\n"

		table, err := ParseCSV(strings.NewReader(input), testLayout())
		require.NoError(t, err)
		assert.Equal(t, []int{1000}, table.Records[0].Values)
	})

	t.Run("Empty person", func(t *testing.T) {
		input := "isim,Tarih,Kitap\n,2024-01-01,1\n"

		_, err := ParseCSV(strings.NewReader(input), testLayout())
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	})

	t.Run("Duplicate person and date", func(t *testing.T) {
		input := "isim,Tarih,Kitap\nAli,2024-01-01,1\nAli,2024-01-01,0\n"

		_, err := ParseCSV(strings.NewReader(input), testLayout())
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	})

	t.Run("Header only gives an empty table", func(t *testing.T) {
		table, err := ParseCSV(strings.NewReader("isim,Tarih,Kitap\n"), testLayout())
		require.NoError(t, err)

		assert.Equal(t, []string{"Kitap"}, table.Habits)
		assert.Empty(t, table.Records)
	})
}

func TestCSVTableRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load reads the file", func(t *testing.T) {
		repo := NewCSVTableRepository(writeCSV(t, sampleCSV), testLayout())

		table, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, table.Records, 4)
	})

	t.Run("Version changes when the file changes", func(t *testing.T) {
		path := writeCSV(t, sampleCSV)
		repo := NewCSVTableRepository(path, testLayout())

		v1, err := repo.Version(ctx)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(v1, "csv:"))

		again, err := repo.Version(ctx)
		require.NoError(t, err)
		assert.Equal(t, v1, again)

		require.NoError(t, os.WriteFile(path, []byte(sampleCSV+"Ayse,2024-01-03,1,1,\n"), 0o644))
		v2, err := repo.Version(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, v1, v2)
	})

	t.Run("Missing file is an unavailable source", func(t *testing.T) {
		repo := NewCSVTableRepository(filepath.Join(t.TempDir(), "nope.csv"), testLayout())

		_, err := repo.Version(ctx)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

		_, err = repo.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		repo := NewCSVTableRepository(writeCSV(t, sampleCSV), testLayout())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.Load(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
