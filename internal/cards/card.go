// Package cards holds the card data model and the search path over the
// local card database.
package cards

// Card mirrors the subset of the Scryfall card object that is persisted
// in the cards table. The full original object is kept in full_data.
type Card struct {
	ID            string            `json:"id"`
	OracleID      string            `json:"oracle_id"`
	Name          string            `json:"name"`
	OracleText    string            `json:"oracle_text"`
	Layout        string            `json:"layout"`
	ManaCost      string            `json:"mana_cost"`
	CMC           float64           `json:"cmc"`
	TypeLine      string            `json:"type_line"`
	Power         string            `json:"power"`
	Toughness     string            `json:"toughness"`
	Loyalty       string            `json:"loyalty"`
	Defense       string            `json:"defense"`
	Colors        []string          `json:"colors"`
	ColorIdentity []string          `json:"color_identity"`
	Keywords      []string          `json:"keywords"`
	Set           string            `json:"set"`
	CollectorNum  string            `json:"collector_number"`
	Rarity        string            `json:"rarity"`
	Artist        string            `json:"artist"`
	ImageURIs     map[string]string `json:"image_uris"`
	Legalities    map[string]string `json:"legalities"`
}
