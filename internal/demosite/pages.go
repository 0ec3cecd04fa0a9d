package demosite

// PageProfile is one serving posture of a page: the headers, cookies and
// markup it answers with.
type PageProfile struct {
	Headers map[string]string
	Cookies []CookieDefinition
	HTML    string
}

// CookieDefinition describes a Set-Cookie the page emits.
type CookieDefinition struct {
	Name     string
	Value    string
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite string
}

// PageDefinition is a demo page with a profile per posture name.
type PageDefinition struct {
	Path        string
	Description string
	Profiles    map[string]PageProfile
}

// Posture profile names.
const (
	ProfileSloppy   = "sloppy"
	ProfileHardened = "hardened"
)

var sloppyHeaders = map[string]string{
	"Server":           "Apache/2.4.41 (Ubuntu)",
	"X-Powered-By":     "PHP/7.4.3",
	"X-AspNet-Version": "",
}

var hardenedHeaders = map[string]string{
	"Server":                    "webserver",
	"Content-Security-Policy":   "default-src 'self'; script-src 'self'",
	"Strict-Transport-Security": "max-age=63072000; includeSubDomains; preload",
	"X-Frame-Options":           "DENY",
	"X-Content-Type-Options":    "nosniff",
	"Referrer-Policy":           "strict-origin-when-cross-origin",
	"Permissions-Policy":        "camera=(), microphone=(), geolocation=()",
	"Cross-Origin-Opener-Policy": "same-origin",
}

// GetAllPages returns the demo pages.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		{
			Path:        "/",
			Description: "Home page with a typical marketing stack",
			Profiles: map[string]PageProfile{
				ProfileSloppy: {
					Headers: sloppyHeaders,
					Cookies: []CookieDefinition{
						{Name: "session", Value: "abc123", Path: "/"},
					},
					HTML: homeSloppyHTML,
				},
				ProfileHardened: {
					Headers: hardenedHeaders,
					Cookies: []CookieDefinition{
						{Name: "session", Value: "abc123", Path: "/", HttpOnly: true, Secure: true, SameSite: "Strict"},
					},
					HTML: homeHardenedHTML,
				},
			},
		},
		{
			Path:        "/login",
			Description: "Login form, with and without CSRF protection",
			Profiles: map[string]PageProfile{
				ProfileSloppy:   {Headers: sloppyHeaders, HTML: loginSloppyHTML},
				ProfileHardened: {Headers: hardenedHeaders, HTML: loginHardenedHTML},
			},
		},
		{
			Path:        "/shop",
			Description: "Shop page with price fields and coupon logic",
			Profiles: map[string]PageProfile{
				ProfileSloppy:   {Headers: sloppyHeaders, HTML: shopHTML},
				ProfileHardened: {Headers: hardenedHeaders, HTML: shopHTML},
			},
		},
		{
			Path:        "/upload",
			Description: "File upload form",
			Profiles: map[string]PageProfile{
				ProfileSloppy:   {Headers: sloppyHeaders, HTML: uploadHTML},
				ProfileHardened: {Headers: hardenedHeaders, HTML: uploadHTML},
			},
		},
		{
			Path:        "/admin",
			Description: "Administrative interface with debug artifacts",
			Profiles: map[string]PageProfile{
				ProfileSloppy: {
					Headers: map[string]string{
						"Server":       "Apache/2.4.41 (Ubuntu)",
						"X-Powered-By": "PHP/7.4.3",
						"X-Debug-Mode": "1",
					},
					HTML: adminHTML,
				},
				ProfileHardened: {Headers: hardenedHeaders, HTML: adminHTML},
			},
		},
	}
}

const homeSloppyHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Store</title>
  <meta name="generator" content="WordPress 5.8" />
  <script src="https://code.jquery.com/jquery-3.6.0.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.1.3/dist/js/bootstrap.min.js"></script>
  <script src="/wp-content/themes/acme/app.js"></script>
  <script src="/static/app.js.map"></script>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.1.3/dist/css/bootstrap.min.css">
  <link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Roboto">
</head>
<body>
  <div id="root" data-reactroot=""></div>
  <a href="/wp-admin/">Admin</a>
  <a href="/shop">Shop</a>
  <form method="POST" action="/search">
    <input type="text" name="q" placeholder="Search products...">
  </form>
  <div class="chat-widget" id="intercom-container"></div>
  <script>
    window.dataLayer = window.dataLayer || [];
    var ws = new WebSocket('ws://acme.example/live');
    localStorage.setItem('auth_token', 'eyJhbGciOiJIUzI1NiJ9.demo.sig');
    fetch('/graphql', {method: 'POST'});
  </script>
  <script src="https://www.googletagmanager.com/gtag/js?id=UA-1"></script>
</body>
</html>`

const homeHardenedHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Store</title>
  <link rel="stylesheet" href="/static/site.css">
</head>
<body>
  <main>
    <h1>Acme Store</h1>
    <a href="/shop">Shop</a>
  </main>
  <script src="/static/site.js"></script>
</body>
</html>`

const loginSloppyHTML = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
  <form method="POST" action="/login">
    <input type="text" name="username">
    <input type="password" name="password">
    <label><input type="checkbox" name="remember"> Remember me</label>
    <button type="submit">Sign in</button>
  </form>
  <a href="/oauth/authorize?client_id=demo&redirect_uri=https://acme.example/cb">Sign in with Google</a>
  <a href="/forgot-password">Forgot password</a>
</body>
</html>`

const loginHardenedHTML = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
  <form method="POST" action="/login">
    <input type="hidden" name="csrf_token" value="d3adb33f">
    <input type="text" name="username" autocomplete="username">
    <input type="password" name="password" autocomplete="current-password">
    <button type="submit">Sign in</button>
  </form>
  <div class="g-recaptcha" data-sitekey="demo"></div>
</body>
</html>`

const shopHTML = `<!DOCTYPE html>
<html>
<head><title>Shop</title></head>
<body>
  <form method="POST" action="/cart">
    <input type="hidden" name="price" value="19.99">
    <input type="number" name="quantity" value="1">
    <input type="text" name="coupon" placeholder="Discount code">
    <button type="submit">Add to cart</button>
  </form>
  <div class="balance">Wallet balance: $120.00 <button id="transfer">Transfer</button></div>
  <a href="/user?id=1337">Your profile</a>
</body>
</html>`

const uploadHTML = `<!DOCTYPE html>
<html>
<head><title>Upload</title></head>
<body>
  <form method="POST" action="/upload" enctype="multipart/form-data">
    <input type="file" name="document">
    <button type="submit">Upload</button>
  </form>
  <div class="dropzone" ondrop="handleDrop(event)">Drag files here</div>
  <script>
    function handleDrop(e) { new FormData(); }
    var xhr = new XMLHttpRequest();
  </script>
</body>
</html>`

const adminHTML = `<!DOCTYPE html>
<html>
<head><title>Admin Dashboard</title></head>
<body>
  <h1>Administration</h1>
  <a href="/admin/users">Users</a>
  <a href="/admin/settings">Settings</a>
  <pre>SELECT * FROM users WHERE id = ?; -- mysql_fetch_array warning on line 42</pre>
  <script>
    document.write(location.hash);
    eval(new URLSearchParams(location.search).get('cb'));
  </script>
</body>
</html>`
