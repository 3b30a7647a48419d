// Package notify renders session events as short-lived banners with a level, a title
// and a one-line text.
package notify
