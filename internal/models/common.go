package models

// ClaimsContextKey is where the bearer-auth middleware stores the verified
// *service.Claims in the echo context.
const ClaimsContextKey = "authClaims"
