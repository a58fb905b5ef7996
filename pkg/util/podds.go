package util

/**
* A set of tools for predicting the outcome of EFL football matches
* - Gets upcoming matches
* - Calculates poisson distribution based on previous results
* - Gets match results based on poisson distribution
 */
