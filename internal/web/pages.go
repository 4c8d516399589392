package web

// Page is one client-side route served by the shell.
type Page struct {
	Path      string
	Title     string
	Bundle    string
	Protected bool
}

// Pages is the shell's route table. Public pages ship in the entry bundle;
// protected pages name the bundle loaded on first navigation.
var Pages = []Page{
	{Path: "/", Title: "PrepInter", Bundle: "landing"},
	{Path: "/signup", Title: "Sign up", Bundle: "signup"},
	{Path: "/signIn", Title: "Sign in", Bundle: "login"},
	{Path: "/dashboard", Title: "Dashboard", Bundle: "dashboard", Protected: true},
	{Path: "/profile", Title: "Profile", Bundle: "profile", Protected: true},
	{Path: "/performance", Title: "Performance", Bundle: "performance", Protected: true},
	{Path: "/mock-interview-setup", Title: "Interview setup", Bundle: "mock-interview-setup", Protected: true},
	{Path: "/result", Title: "Interview result", Bundle: "interview-result", Protected: true},
	{Path: "/interview", Title: "Interview", Bundle: "interview", Protected: true},
}

// SignInPath is where unauthenticated visitors of protected pages land.
const SignInPath = "/signIn"
