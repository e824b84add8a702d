package channels

import "github.com/JakeFAU/tv-schedule-scraper/internal/schedule"

// defaultRoster is the published channel table. The order matters: the
// aggregate schedule scrapes a prefix of it.
var defaultRoster = []schedule.Channel{
	{ID: "hbo", Name: "HBO", URLName: "hbo"},
	{ID: "hbo2", Name: "HBO 2", URLName: "hbo2"},
	{ID: "hbo_signature", Name: "HBO Signature", URLName: "hbo-signature"},
	{ID: "hbo_family", Name: "HBO Family", URLName: "hbo-family"},
	{ID: "hbo_comedy", Name: "HBO Comedy", URLName: "hbo-comedy"},
	{ID: "hbo_zone", Name: "HBO Zone", URLName: "hbo-zone"},
	{ID: "cinemax", Name: "Cinemax", URLName: "cinemax"},
	{ID: "more_max", Name: "More MAX", URLName: "more-max"},
	{ID: "action_max", Name: "Action MAX", URLName: "action-max"},
	{ID: "thriller_max", Name: "Thriller MAX", URLName: "thrillermax"},
	{ID: "5star_max", Name: "5 Star MAX", URLName: "5-star-max"},
	{ID: "movie_max", Name: "Movie MAX", URLName: "moviemax"},
	{ID: "outer_max", Name: "Outer MAX", URLName: "outer-max"},
	{ID: "showtime", Name: "Showtime", URLName: "showtime"},
	{ID: "showtime2", Name: "Showtime 2", URLName: "showtime-2"},
	{ID: "shoxbet", Name: "SHOxBET", URLName: "shoxbet"},
	{ID: "showtime_extreme", Name: "Showtime Extreme", URLName: "showtime-extreme"},
	{ID: "showtime_next", Name: "Showtime Next", URLName: "showtime-next"},
	{ID: "showtime_women", Name: "Showtime Women", URLName: "showtime-women"},
	{ID: "showtime_family", Name: "Showtime Family Zone", URLName: "showtime-familyzone"},
	{ID: "showtime_showcase", Name: "Showtime Showcase", URLName: "showtime-showcase"},
	{ID: "starz", Name: "Starz", URLName: "starz"},
	{ID: "starz_edge", Name: "Starz Edge", URLName: "starz-edge"},
	{ID: "starz_black", Name: "Starz in Black", URLName: "starz-in-black"},
	{ID: "starz_comedy", Name: "Starz Comedy", URLName: "starz-comedy"},
	{ID: "starz_cinema", Name: "Starz Cinema", URLName: "starz-cinema"},
	{ID: "starz_kids", Name: "Starz Kids & Family", URLName: "starz-kids-family"},
	{ID: "starz_encore", Name: "Starz Encore", URLName: "starz-encore"},
	{ID: "starz_encore_action", Name: "Starz Encore Action", URLName: "starz-encore-action"},
	{ID: "starz_encore_classic", Name: "Starz Encore Classic", URLName: "starz-encore-classic"},
	{ID: "starz_encore_black", Name: "Starz Encore Black", URLName: "starz-encore-black"},
	{ID: "starz_encore_family", Name: "Starz Encore Family", URLName: "starz-encore-family"},
	{ID: "starz_encore_suspense", Name: "Starz Encore Suspense", URLName: "starz-encore-suspense"},
	{ID: "starz_encore_westerns", Name: "Starz Encore Westerns", URLName: "starz-encore-westerns"},
	{ID: "tnt", Name: "TNT", URLName: "tnt"},
	{ID: "syfy", Name: "SYFY", URLName: "syfy"},
	{ID: "amc", Name: "AMC", URLName: "amc"},
	{ID: "fx", Name: "FX", URLName: "fx"},
	{ID: "fx_movie", Name: "FX Movie Channel", URLName: "fx-movie-channel"},
	{ID: "fxx", Name: "FXX", URLName: "fxx"},
	{ID: "bbc_america", Name: "BBC America", URLName: "bbc-america"},
	{ID: "bounce_tv", Name: "Bounce TV", URLName: "bounce-tv"},
	{ID: "cartoon", Name: "Cartoon Network", URLName: "cartoon-network"},
	{ID: "court_tv", Name: "Court TV", URLName: "court-tv"},
	{ID: "freeform", Name: "Freeform", URLName: "freeform"},
	{ID: "heroes_icons", Name: "Heroes & Icons", URLName: "heroes-icons"},
	{ID: "ion_mystery", Name: "ION Mystery", URLName: "ion-mystery"},
	{ID: "metv", Name: "MeTV", URLName: "metv"},
	{ID: "metv_toons", Name: "MeTV Toons", URLName: "metv-toons"},
	{ID: "mgm_plus", Name: "MGM+", URLName: "mgm-plus"},
	{ID: "vh1", Name: "VH1", URLName: "vh1"},
	{ID: "vice_tv", Name: "Vice TV", URLName: "vice-tv"},
}
