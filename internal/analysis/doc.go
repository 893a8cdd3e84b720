// Package analysis provides divergence and chaos analysis for trajectory
// pairs.
//
//   - [Separation]: pointwise distance series between two runs
//   - [Diverge]: divergence summary with an exponential-rate fit
//   - [LargestLyapunov]: largest Lyapunov exponent via renormalized pairs
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LargestLyapunov(sys, newStepper, x0, dt, steps, 1e-6)
//	if lambda > 0 {
//	    // System is chaotic
//	}
package analysis
