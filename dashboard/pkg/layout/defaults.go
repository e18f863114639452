package layout

var defaultCards = map[Profile][]Card{
	ProfileStudent: {
		{ID: "my-cursus", Title: "My Cursus", Icon: "fas fa-graduation-cap", Visible: true},
		{ID: "announcements", Title: "Announcements", Icon: "fas fa-bullhorn", Visible: true},
		{ID: "schedule", Title: "Emploi du Temps", Icon: "fas fa-calendar-alt", Visible: true},
		{ID: "virtual-library", Title: "Virtual Library", Icon: "fas fa-book", Visible: true},
		{ID: "grades", Title: "Grades", Icon: "fas fa-chart-bar", Visible: true},
		{ID: "assignments", Title: "Assignments", Icon: "fas fa-tasks", Visible: true},
	},
	ProfileTeacher: {
		{ID: "my-classes", Title: "My Classes", Icon: "fas fa-chalkboard-teacher", Visible: true},
		{ID: "lesson-plans", Title: "Lesson Plans", Icon: "fas fa-book-open", Visible: true},
		{ID: "gradebook", Title: "Gradebook", Icon: "fas fa-clipboard-list", Visible: true},
		{ID: "student-progress", Title: "Student Progress", Icon: "fas fa-chart-line", Visible: true},
	},
	ProfileATS: {
		{ID: "server-status", Title: "Server Status", Icon: "fas fa-server", Visible: true},
		{ID: "user-management", Title: "User Management", Icon: "fas fa-users", Visible: true},
		{ID: "system-updates", Title: "System Updates", Icon: "fas fa-download", Visible: true},
		{ID: "maintenance", Title: "Maintenance", Icon: "fas fa-tools", Visible: true},
	},
	ProfileDoctoral: {
		{ID: "research-project", Title: "Research Project", Icon: "fas fa-microscope", Visible: true},
		{ID: "literature-review", Title: "Literature Review", Icon: "fas fa-book-reader", Visible: true},
		{ID: "publications", Title: "Publications", Icon: "fas fa-newspaper", Visible: true},
		{ID: "supervisor-meetings", Title: "Supervisor Meetings", Icon: "fas fa-handshake", Visible: true},
	},
}

// DefaultCards returns a fresh copy of the hard-coded cards for a profile.
// Unknown profiles get an empty list.
func DefaultCards(p Profile) []Card {
	return cloneCards(defaultCards[p])
}

// DefaultLayout returns the layout a profile starts with.
func DefaultLayout(p Profile) Layout {
	return Layout{
		Cards:        DefaultCards(p),
		DeletedCards: []Card{},
	}
}

// Persona holds the chat presentation for a profile.
type Persona struct {
	Icon  string
	Title string
}

var personas = map[Profile]Persona{
	ProfileStudent:  {Icon: "🎓", Title: "Student Dashboard AI"},
	ProfileTeacher:  {Icon: "👨‍🏫", Title: "Teacher Dashboard AI"},
	ProfileATS:      {Icon: "⚙️", Title: "Technical Support AI"},
	ProfileDoctoral: {Icon: "🔬", Title: "Doctoral Research AI"},
}

// PersonaFor returns the assistant persona for a profile.
func PersonaFor(p Profile) Persona {
	if persona, ok := personas[p]; ok {
		return persona
	}
	return Persona{Icon: "🤖", Title: "Dashboard AI"}
}

// Greeting is the first message the assistant shows.
func (p Persona) Greeting() string {
	return "Hello! I'm your " + p.Title + ` assistant. How can I help you customize your dashboard? Say "show layout" to see your current dashboard cards.`
}
