// Package kstest implements the two-sample Kolmogorov-Smirnov comparison used
// to judge whether a filtered subset of daily returns is distributed like the
// full population.
//
// # Pipeline
//
// Both samples are pooled into a sorted combined support. Each sample's
// empirical CDF is evaluated on that support with a single forward pass, and
// the KS statistic is the largest absolute gap between the two CDFs:
//
//	support := CombinedSupport(a, b)
//	cdf1, _ := ECDF(a, support)
//	cdf2, _ := ECDF(b, support)
//	ks, _ := Statistic(cdf1, cdf2)
//	p := PValue(ks, len(a), len(b))
//
// Test wraps the whole sequence and returns a Result carrying both CDFs so a
// presentation layer can plot them.
//
// # P-value
//
// The p-value is 2 * (1 - Φ(ks * λ)) with λ = sqrt(n1*n2/(n1+n2)) and Φ the
// standard normal CDF. This is a normal tail approximation rather than the
// asymptotic Kolmogorov series. The formula itself admits values up to 2, but
// since ks * λ is never negative the values produced here lie in [0, 1], with
// identical samples giving 1. Results from other statistics packages will
// differ, particularly for small samples.
//
// Φ is evaluated through Erf, the Abramowitz & Stegun 7.1.26 rational
// approximation (maximum absolute error about 1.5e-7).
//
// All functions are pure and safe for concurrent use.
package kstest
