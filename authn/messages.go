package authn

// Client-facing messages.
const (
	MsgRegistered         = "User registered successfully"
	MsgLoggedIn           = "Login successful"
	MsgFederatedLoggedIn  = "Google authentication successful"
	MsgRegisterRequired   = "Please provide full name, email, and password"
	MsgInvalidEmail       = "Please provide a valid email address"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgPasswordTooLong    = "Password must be at most 72 bytes long"
	MsgInvalidRole        = "Role must be one of: USER, ADMIN"
	MsgLoginRequired      = "Please provide email and password"
	MsgIDTokenRequired    = "Please provide Google ID token"
	MsgEmailTaken         = "User with this email already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUseFederatedLogin  = "Please use Google Sign-In for this account"
	MsgFederatedFailed    = "Failed to verify Google token"
	MsgUsePasswordLogin   = "Account exists with email/password. Please use email login."
	MsgUserNotFound       = "User not found"
)
