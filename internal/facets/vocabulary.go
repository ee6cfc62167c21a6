package facets

// Static vocabularies. These are fixed domain knowledge and do not depend on
// catalog content; options with no matching items are still listed with a
// zero count.
var (
	// StatusValues lists the status facet options. "All" selects every item.
	StatusValues = []string{
		"All",
		"Coming Soon",
		"New Releases",
		"Funko Exclusive",
		"Pre-Order",
		"In Stock",
		"Sold Out",
	}

	CategoryValues = []string{
		"Pop!",
		"Bitty Pop!",
		"Mini Figures",
		"Vinyl Soda",
		"Loungefly",
		"REWIND",
		"Pop! Pins",
		"Toys and Plushies",
		"Clothing",
		"Funko Gear",
		"Funko Games",
	}

	GenreValues = []string{
		"Animation",
		"Anime & Manga",
		"80s Flashback",
		"Movies & TV",
		"Horror",
		"Music",
		"Sports",
		"Video Games",
		"Retro Toys",
		"Ad Icons",
	}

	// EditionValues keeps the catalog's historical spellings, including the
	// misspelled "DIAMON COLLECTION", since stored records use both.
	EditionValues = []string{
		"New Releases",
		"Exclusives",
		"Convention Style",
		"Character Cosplay",
		"Rainbow Brights",
		"Retro Rewind",
		"Theme Park Favourites",
		"Disney Princesses",
		"All The Sparkles",
		"Back in Stock",
		"BLACK LIGHT",
		"BRONZE",
		"BTS X MINIONS",
		"CHASE",
		"CONVENTION",
		"DIAMON COLLECTION",
		"DIAMOND COLLECTION",
		"EASTER",
		"FACET COLLECTION",
		"FLOCKED",
		"GLITTER",
		"GLOW IN THE DARK",
		"HOLIDAY",
		"HYPERSPACE HEROES",
		"LIGHTS AND SOUND",
		"MEME",
		"METALLIC",
		"PEARLESCENT",
		"PRIDE",
		"RETRO COMIC",
		"RETRO SERIES",
		"SCOOPS AHOY",
		"SOFT COLOUR",
		"VALENTINE'S",
	}

	FandomValues = []string{
		"8-Bit", "Ad Icons", "Air Force", "Albums", "Animation", "Aquasox", "Army",
		"Around the World", "Artists", "Art Covers", "Art Series", "Asia", "Bape",
		"Basketball", "Board Games", "Books", "Boxing", "Broadway", "Build a Bear",
		"Candy", "Christmas", "Classics", "College", "Comedians", "Comic Covers",
		"Comics", "Conan", "Custom", "Deluxe", "Deluxe Moments", "Die-Cast", "Digital",
		"Disney", "Directors", "Drag Queens", "Fantastic Beasts", "Fashion", "Foodies",
		"Football", "Freddy Funko", "Fantastik Plastik", "Lance", "Game of Thrones",
		"Games", "Game Covers", "Golf", "GPK", "Halo", "Harry Potter", "Heroes",
		"Hockey", "Holidays", "House of the Dragons", "Icons", "League of Legends",
		"Magic: The Gathering", "Marines", "Marvel", "Magazine Covers", "Minis", "MLB",
		"Moments", "Monsters", "Movie Posters", "Movies", "Muppets", "Myths",
		"My Little Pony", "NASCAR", "Navy", "NBA Mascots", "NFL", "Pets", "Pusheen",
		"Racing", "Retro Toys", "Rides", "Rocks", "Royals", "Sanrio", "Sci-Fi",
		"Sesame Street", "SNL", "South Park", "Special Edition", "Sports",
		"Sports Legends", "Stan Lee", "Star Wars", "Television", "Tennis", "The Vote",
		"Town", "Town Christmas", "Trading Cards", "Trains", "Trolls", "UFC",
		"Uglydoll", "Valiant", "Vans", "VHS Covers", "Wreck-It Ralph", "Wrestling",
		"WWE", "WWE Covers", "Zodiac",
	}

	// VaultedValues lists the vaulted mode options
	VaultedValues = []string{"All", "Vaulted", "Available"}
)
