// Package domain defines the core business entities of the referral loyalty
// program and the validation rules that guard them.
package domain
