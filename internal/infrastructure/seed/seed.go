package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"botsales-backend/internal/domain"
)

//go:embed data/seed.json
var defaultSeed []byte

// Data is a cold-start snapshot of the marketplace.
type Data struct {
	Users    []domain.User        `json:"users"`
	Listings []domain.Listing     `json:"listings"`
	Articles []domain.NewsArticle `json:"articles"`
}

// Default returns the demo catalogue bundled with the binary.
func Default() (Data, error) {
	var d Data
	if err := json.Unmarshal(defaultSeed, &d); err != nil {
		return Data{}, fmt.Errorf("decode bundled seed: %w", err)
	}
	return d, nil
}

func Parse(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("decode seed: %w", err)
	}
	return d, nil
}

func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return Parse(f)
}
