// Package clientip extracts real client IP addresses from HTTP requests.
//
// The package checks proxy headers in a fixed priority order to determine
// the actual client address behind load balancers and reverse proxies:
//
//  1. X-Forwarded-For (leftmost, original client entry)
//  2. X-Real-IP (nginx and other proxies)
//  3. RemoteAddr (direct connection)
//
// All candidate values are validated and normalized via net.ParseIP;
// malformed headers are silently skipped and the function never panics.
//
// Basic usage:
//
//	ip := clientip.GetIP(r)
//	ua := clientip.UserAgent(r)
package clientip
