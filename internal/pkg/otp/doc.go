// Package otp provides the password generator used to issue one-time
// passwords (OTP).
//
// A password is made of one or more segments. Every segment is sampled from a
// character set selected by a format (numeric, numeric-no-zero, string or a
// caller supplied charset) and segments are joined with a separator, so a
// length of [4, 4] yields codes like "7K2M-QX9D".
package otp
