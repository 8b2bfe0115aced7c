// Package domain models tabular weather observations and the cleaning and
// calendar resampling applied to them.
//
// # Input Conventions
//
// Observations arrive as a CSV with a header row. The timestamp column is
// named "date" or, failing that, "Date" (case-sensitive). When only "Date"
// exists, cleaning appends a parsed "date" column and leaves "Date" as read.
//
// Timestamps are parsed in UTC using a fixed list of layouts (see
// [ParseTimestamp]). A cell that matches none of them is treated as null and
// its row is dropped; this is not an error.
//
// Missing cells follow the usual spreadsheet NA tokens: "", "NA", "N/A",
// "NaN", "null", "None" and friends (see [IsMissing]).
//
// # Column Kinds
//
// A column is numeric when every non-missing cell parses as a float, so a
// column of blanks is numeric too. Numeric columns hold NaN for missing cells. Every other
// column is text and is carried through cleaning untouched.
//
// # Gap Filling
//
// Each numeric column is filled independently, in row order after sorting:
//
//	1. interior gaps: linear interpolation between the nearest known neighbours
//	2. leading/trailing gaps: the column mean, computed after step 1
//
// A numeric column with no known value after dropping null-date rows cannot
// be filled. It stays numeric and all NaN, and is listed in
// [CleanReport].EmptyColumns.
//
// # Resampling
//
// Daily and monthly tables are built by explicit calendar bucketing over the
// cleaned timestamps. Buckets span from the first to the last observation, so
// empty days or months between them are present:
//
//	Daily:   mean of every numeric column, NaN for empty days
//	Monthly: mean temperature, summed rainfall, mean humidity
//	         (an empty month sums to 0 and averages to NaN)
//
// The temperature, rainfall and humidity column names are configured through
// [ColumnSet] rather than assumed.
package domain
