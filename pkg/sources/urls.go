package sources

const (
	NaturalEarthBaseURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/"

	LandURL      = NaturalEarthBaseURL + "ne_50m_land.geojson"
	OceanURL     = NaturalEarthBaseURL + "ne_50m_ocean.geojson"
	CoastlineURL = NaturalEarthBaseURL + "ne_50m_coastline.geojson"
	BordersURL   = NaturalEarthBaseURL + "ne_50m_admin_0_boundary_lines_land.geojson"

	OurAirportsURL = "https://davidmegginson.github.io/ourairports-data/airports.csv"
)
