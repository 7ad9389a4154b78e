// Package inflation projects a long-term investment plan and reports its value
// after fees, taxes and inflation.
//
// A projection is a pure function of its Params and of a Baseline:
//
//   - a PricePath gives a synthetic asset price for every calendar day of the
//     horizon, compounding the gross yield at each new year and interpolating
//     linearly inside the year;
//   - Schedule lays out the contributions (an initial lump sum plus weekly,
//     monthly or annual recurring amounts) and buys units net of the buy-in
//     fee;
//   - AccrueCustody charges the custody fee on the value held at each
//     December 31st;
//   - Liquidate sells every unit on the last day, charges the sell-out fee and
//     taxes the positive gains;
//   - a Deflator converts nominal amounts into amounts in start-date money,
//     using a constant annual inflation rate.
//
// Project chains those steps and returns a Projection whose Report holds the
// headline figures (Summary) and the breakdown (Details), rounded to cents.
//
// The package also carries the arithmetic used on consumer price indices
// stored by the service: AnnualRates, Correct and InflationRate.
package inflation
