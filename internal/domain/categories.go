package domain

// Category is a registry entry with its display metadata.
type Category struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Tooltip     string `json:"tooltip"`
}

// registry order matters: the daily game shuffles this list.
var registry = []Category{
	{"LOTR", "Tolkien's Lord of the Rings", "Characters, places, and items from Tolkien's Middle-earth"},
	{"Pokemon", "Pokémon", "Everything Pokémon. Includes species names, moves, items, locations, cities, and more."},
	{"Tech", "Tech Company or Product", "Technology companies, products, services, or brands"},
	{"Psychiatric", "Psychiatric Medication", "Prescription psychiatric medications and drug names"},
	{"NorsePagan", "Norse Mythology", "Gods, creatures, and concepts from Norse/Viking mythology"},
	{"GreekPagan", "Greek Mythology", "Gods, heroes, and creatures from ancient Greek mythology"},
	{"RomanPagan", "Roman Mythology", "Gods and figures from ancient Roman mythology"},
	{"CelticPagan", "Celtic Mythology", "Gods, heroes, and creatures from Celtic/Irish mythology"},
	{"MetalMusic", "Metal Music", "Metal bands, albums, or songs"},
	{"RockMusic", "Rock Music", "Rock bands, albums, or songs"},
	{"IKEA", "IKEA Furniture", "IKEA product names"},
	{"StarWars", "Star Wars", "Characters, ships, planets from the Star Wars universe"},
	{"ProgrammingLang", "Programming Language or Framework", "Programming languages, frameworks, or development tools"},
	{"DigitalTerm", "Digital Terminology", "Technical terminology used in computing and digital media"},
	{"SiliconValleyBS", "Silicon Valley Venture Capitalist Bullshit", "Everything crypto, blockchain, NFT, or other nonsensical bullshit that only exists to please venture capitalists."},
	{"HistoricalState", "Historical State or City", "Names of historical nations, empires, city-states, or ancient cities"},
	{"DnD", "Dungeons and Dragons", "Monsters, creatures, Gods, spells, classes, or items from Dungeons & Dragons or Forgotten Realms or Eberron Lore"},
	{"Warhammer", "Warhammer", "Factions, units, or characters from Warhammer 40K/Fantasy"},
	{"Zelda", "Legend of Zelda", "Characters, items, or places from The Legend of Zelda series"},
	{"Yugioh", "Yu-Gi-Oh!", "Cards or characters from Yu-Gi-Oh!"},
	{"Digimon", "Digimon", "Digimon species names"},
	{"DragonBallZ", "Dragon Ball Z", "Characters or techniques from Dragon Ball"},
	{"JoJo", "JoJo's Bizarre Adventure", "Characters, Stands, or references from JoJo's Bizarre Adventure"},
	{"Painter", "Famous Painter", "Famous painters throughout history"},
	{"Philosopher", "Philosopher", "Notable philosophers throughout history"},
	{"Author", "Famous Author", "Famous authors and writers. (if the philosopher category is included, nearly all philosophers will also be authors)."},
	{"CarModel", "Car Model", "Car model names (not brands)"},
	{"CloudInfra", "Cloud Infrastructure Tool", "Cloud platforms, infrastructure tools, and DevOps software"},
	{"MTG", "Magic: The Gathering", "Cards, mechanics, or planes from Magic: The Gathering"},
	{"Celestial", "Celestial Body", "Natural objects in space: planets, moons, stars, asteroids (not zodiac signs)"},
	{"Bird", "Ornithology", "Bird species names"},
	{"Pigment", "Colours or Pigments", "Color names, pigments, or dyes"},
	{"SmashBros", "Super Smash Bros. Character", "Playable fighters in Super Smash Bros. games"},
	{"AssassinsCreed", "Assassin's Creed Appearance", "Historical figures or settings featured in Assassin's Creed"},
	{"Superhero", "Marvel/DC Superhero", "Superheroes or villains from Marvel or DC comics"},
	{"GreekLetter", "Greek Letter", "Letters of the Greek alphabet"},
	{"SpaceMission", "NASA Space Mission", "NASA missions or space programs (does not include spacecraft)"},
}

var registryIndex = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, c := range registry {
		idx[c.ID] = i
	}
	return idx
}()

// Categories returns a copy of the registry in its canonical order.
func Categories() []Category {
	out := make([]Category, len(registry))
	copy(out, registry)
	return out
}

// CategoryIDs returns the registry identifiers in canonical order.
func CategoryIDs() []string {
	ids := make([]string, len(registry))
	for i, c := range registry {
		ids[i] = c.ID
	}
	return ids
}

// IsCategory reports whether id is a registered category identifier.
func IsCategory(id string) bool {
	_, ok := registryIndex[id]
	return ok
}

// LookupCategory returns the registry entry for id.
func LookupCategory(id string) (Category, bool) {
	i, ok := registryIndex[id]
	if !ok {
		return Category{}, false
	}
	return registry[i], true
}

// DisplayName falls back to the identifier for unknown categories.
func DisplayName(id string) string {
	if c, ok := LookupCategory(id); ok {
		return c.DisplayName
	}
	return id
}

// CategoryOrder is the registry position of id, or -1.
func CategoryOrder(id string) int {
	if i, ok := registryIndex[id]; ok {
		return i
	}
	return -1
}
