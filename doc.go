// Package realvalue compares the purchasing power of money held in different
// currencies over time.
//
// It combines monthly exchange rates and consumer price indices:
//   - Series and Align put raw provider observations on a shared monthly
//     index, forward filling gaps up to a maximum age.
//   - ComputeInflation derives cumulative and year over year inflation from
//     an aligned CPI series, relative to a baseline month.
//   - Compare deflates a baseline amount by each currency's inflation and
//     converts it to USD, month by month, for both sides of a pair.
//   - Assemble reshapes the pair results into the tables of a report.
//
// Comparator ties them together: it retrieves the data of every currency once,
// from a CPISource and an FXSource, and compares all requested pairs.
//
// This package serves as the foundational logic for the `rv` command-line tool.
package realvalue
