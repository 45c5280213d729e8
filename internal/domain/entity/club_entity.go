package entity

// Club is an entry of the fixed student-organisation list offered to the recommender.
type Club struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var clubs = []Club{
	{Name: "Engineers Without Borders", Description: "Work on international engineering projects to help communities in need."},
	{Name: "Lehigh University Investment Club", Description: "Manage a real investment portfolio and learn about financial markets."},
	{Name: "Coding Community", Description: "Collaborate on coding projects, learn new technologies, and participate in hackathons."},
	{Name: "The Forum", Description: "Engage in debates and discussions about current events and philosophical topics."},
	{Name: "Art and Architecture Club", Description: "Explore creative expression through various mediums and learn about architectural design."},
	{Name: "Outing Club", Description: "Participate in hiking, climbing, and other outdoor adventures in the Lehigh Valley."},
	{Name: "Lehigh University Dance Team", Description: "Perform at university events and compete in various dance styles."},
	{Name: "Mock Trial Association", Description: "Simulate court proceedings and compete against other universities."},
	{Name: "The Brown and White", Description: "Join Lehigh's student newspaper as a writer, editor, or photographer."},
	{Name: "Lehigh After Dark", Description: "Plan and host late-night events and activities for students on campus."},
	{Name: "Modeling Club", Description: "Where you can learn about the history of modeling and participate in photoshoots. You also can be apart of the Spring fashion show in the Spring!"},
	{Name: "AI Club", Description: "Want to learn more about AI and it's uses? Come to AI club where you can learn all about how to use Artifiical Intelligence!"},
}

// Clubs returns a copy of the club list.
func Clubs() []Club {
	out := make([]Club, len(clubs))
	copy(out, clubs)
	return out
}

// FindClub looks a club up by exact name.
func FindClub(name string) (Club, bool) {
	for _, c := range clubs {
		if c.Name == name {
			return c, true
		}
	}
	return Club{}, false
}

// FallbackRecommendations is served whenever the recommender fails.
// "Outdoor Club" is not in the club list; it is kept as shipped.
func FallbackRecommendations() []ClubRecommendation {
	return []ClubRecommendation{
		{ClubName: "Outdoor Club", Reason: "A great way to de-stress and explore the local area."},
		{ClubName: "Coding Community", Reason: "Perfect for honing your technical skills outside of class."},
		{ClubName: "The Brown and White", Reason: "An excellent opportunity to improve your writing and get involved in campus news."},
	}
}
