package scheme

import (
    "context"
    "fmt"
    "testing"

    "github.com/stretchr/testify/require"
)

func fixedLoader(records []Record) Loader {
    return func(ctx context.Context) ([]Record, error) { return records, nil }
}

var testCatalog = []Record{
    {Code: "100027", Name: "Grindlays Super Saver Income Fund-GSSIF-Half Yearly Dividend"},
    {Code: "119551", Name: "Axis Bluechip Fund - Regular Plan - Growth"},
    {Code: "118825", Name: "SBI Small Cap Fund Regular Growth"},
    {Code: "120505", Name: "SBI Blue Chip Fund - Direct Plan - Growth"},
}

func TestFind_AllTermsMatch(t *testing.T) {
    d := NewDirectory(fixedLoader(testCatalog))

    rec, ok := d.Find(t.Context(), "SBI Small Cap")
    require.True(t, ok)
    require.Equal(t, "118825", rec.Code)
}

func TestFind_ShortTokensDiscarded(t *testing.T) {
    d := NewDirectory(fixedLoader(testCatalog))

    // "SBI" survives (len 3); "a" is noise and must not block the match.
    rec, ok := d.Find(t.Context(), "SBI a small cap")
    require.True(t, ok)
    require.Equal(t, "118825", rec.Code)
}

func TestFind_FirstMatchInCatalogOrder(t *testing.T) {
    d := NewDirectory(fixedLoader(testCatalog))

    // Both SBI funds contain "sbi" and "fund"; catalog order decides.
    rec, ok := d.Find(t.Context(), "SBI fund")
    require.True(t, ok)
    require.Equal(t, "118825", rec.Code)
}

func TestFind_AllNoiseTokensMatchFirstRecord(t *testing.T) {
    d := NewDirectory(fixedLoader(testCatalog))

    // Every token is discarded as noise, so the AND scan matches vacuously
    // and the first catalog record wins. Preserved source behavior.
    rec, ok := d.Find(t.Context(), "ab cd")
    require.True(t, ok)
    require.Equal(t, "100027", rec.Code)
}

func TestFind_NoMatch(t *testing.T) {
    d := NewDirectory(fixedLoader(testCatalog))

    _, ok := d.Find(t.Context(), "Nonexistent Fund XYZ")
    require.False(t, ok)
}

func TestFind_LoadFailureIsSilentAndFinal(t *testing.T) {
    calls := 0
    d := NewDirectory(func(ctx context.Context) ([]Record, error) {
        calls++
        return nil, fmt.Errorf("catalog unavailable")
    })

    _, ok := d.Find(t.Context(), "SBI Small Cap")
    require.False(t, ok)
    require.Equal(t, LoadFailed, d.State())

    // Subsequent lookups do not retry the catalog fetch.
    _, ok = d.Find(t.Context(), "SBI Small Cap")
    require.False(t, ok)
    require.Equal(t, 1, calls)
}

func TestFind_CatalogFetchedOnce(t *testing.T) {
    calls := 0
    d := NewDirectory(func(ctx context.Context) ([]Record, error) {
        calls++
        return testCatalog, nil
    })

    require.Equal(t, NotLoaded, d.State())
    for i := 0; i < 3; i++ {
        _, ok := d.Find(t.Context(), "Axis Bluechip")
        require.True(t, ok)
    }
    require.Equal(t, 1, calls)
    require.Equal(t, Loaded, d.State())
    require.Equal(t, len(testCatalog), d.Size())
}
