package web

// Page copy that is not part of the content documents.
var (
	HeroRoles = []string{"UI/UX Designer", "Product Designer", "Design System Expert"}

	ProjectsIntro = `A showcase of my design work and problem-solving approach.`

	ExperienceIntro = `Where I have worked and what I shipped along the way.`

	SkillsIntro = `Tools and practices I use every day, with an honest read on how deep each one goes.`

	ContactIntro = `Have a project in mind or just want to say hello? My inbox is open.`

	AvailabilityNote = `Ready to take on new projects and collaborations`

	ContactSuccess = `Thank you for your message! I'll get back to you soon.`

	ContactFailure = `Sorry, there was an error sending your message. Please try again later.`
)
