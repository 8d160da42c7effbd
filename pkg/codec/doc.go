// Package codec defines the contract between the router and the values it
// reads from and writes to URLs.
//
// A Codec converts one URL string into a typed value and back. The router
// calls Decode for every path segment bound to a parameter and for every
// query key the active route declares; Encode is used when building hrefs and
// when query cells are written back to the address bar.
//
// Codecs must be pure and stateless. The Specificity weight is used to rank
// path variants whose literal segments tie: a codec that accepts fewer
// strings (positive integers, UUIDs) ranks ahead of one that accepts any
// string.
//
// The package ships the handful of codecs the route table needs:
//
//	codec.String       any text
//	codec.Int          signed decimal integer
//	codec.PositiveInt  integer > 0
//	codec.Float        finite decimal number
//	codec.Flag         presence flag (?local, ?local=1)
//	codec.UUID         RFC 4122 UUID (github.com/google/uuid)
//	codec.Strings      repeated query key (?tag=a&tag=b)
//	codec.Enum(...)    one of a fixed set of words
//
// Custom codecs are usually built with New:
//
//	zoom := codec.New(func(s string) (int, error) {
//	    z, err := strconv.Atoi(s)
//	    if err != nil || z < 0 || z > 25 {
//	        return 0, codec.ErrInvalid
//	    }
//	    return z, nil
//	}, strconv.Itoa, codec.WeightInteger)
package codec
