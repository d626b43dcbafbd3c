package store

// Table names.
const (
	AttributesTable = "dico_swapi_attributes"
	CacheTable      = "swapi_cache"
)

const attributesDDL = `
CREATE TABLE IF NOT EXISTS dico_swapi_attributes (
	api_key       TEXT NOT NULL,
	api_attribute TEXT,
	label         TEXT NOT NULL,
	position      INTEGER NOT NULL,
	PRIMARY KEY (api_key, api_attribute)
);
`

const cacheDDL = `
CREATE TABLE IF NOT EXISTS swapi_cache (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	term         TEXT NOT NULL,
	cached_at    INTEGER NOT NULL,
	results_json TEXT NOT NULL,
	UNIQUE (term, cached_at)
);
CREATE INDEX IF NOT EXISTS idx_swapi_cache_term ON swapi_cache(term, cached_at);
`

// seedAttribute is one dictionary row.
type seedAttribute struct {
	kind  string
	name  string
	label string
}

// defaultAttributes is the dictionary content written when the table is created.
// Order within a kind is the display order.
//
//nolint:gochecknoglobals // Static seed data.
var defaultAttributes = []seedAttribute{
	{KindPeople, "name", "Name"},
	{KindPeople, "height", "Height"},
	{KindPeople, "mass", "Mass"},
	{KindPeople, "hair_color", "Hair Color"},
	{KindPeople, "skin_color", "Skin Color"},
	{KindPeople, "eye_color", "Eye Color"},
	{KindPeople, "birth_year", "Birth Year"},
	{KindPeople, "gender", "Gender"},
	{KindPeople, "homeworld", "Homeworld"},

	{KindPlanets, "name", "Name"},
	{KindPlanets, "diameter", "Diameter"},
	{KindPlanets, "rotation_period", "Rotation Period"},
	{KindPlanets, "orbital_period", "Orbital Period"},
	{KindPlanets, "gravity", "Gravity"},
	{KindPlanets, "population", "Population"},
	{KindPlanets, "climate", "Climate"},
	{KindPlanets, "terrain", "Terrain"},
	{KindPlanets, "surface_water", "Surface Water"},
}
