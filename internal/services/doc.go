// Package services defines the [VideoProvider] and [Authenticator] interfaces and implements them for TIDAL.
//
// # TIDAL Implementation
//
// [TidalService] talks to the TIDAL v1 API. Catalogue calls carry the session's country code.
// API objects are converted to plain values from the models package at this boundary;
// nothing downstream sees the wire types.
//
// # Authentication
//
// Login uses the OAuth2 device-code flow. TIDAL's device authorization response uses camelCase keys,
// so the authorization request is made directly and the polling is delegated to [oauth2.Config.DeviceAccessToken].
// Once a token is installed, the [oauth2] client refreshes it transparently.
//
// [SessionStore] persists the token as JSON so later runs can skip the interactive login.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no session installed, or the API answered 401
//   - [shared.ErrSessionInvalid] : cached session rejected or refresh failed
//   - [shared.ErrAuthFailed] : device login did not complete
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrInvalidImageSize], [shared.ErrNoImage] : thumbnail could not be resolved
package services
