// Package service contains the business logic of the referral loyalty
// program: client profile management, referral creation, referral acceptance
// with its atomic point award, and the lazy expiry sweep.
package service
