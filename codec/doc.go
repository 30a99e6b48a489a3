// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package codec implements the fixed-layout binary encoding of poll and vote
records and the primitives shared with the instruction envelope.

# Encoding

All integers are little-endian. Strings and sequences carry a u32 length
prefix:

	bool     1 byte (0 or 1)
	u32      4 bytes
	i64      8 bytes
	address  32 bytes
	string   u32 length + UTF-8 bytes
	[]T      u32 count + elements

# Records

	Poll: initialized | title | options | authority | start_time | end_time | vote_counts
	Vote: initialized | voter | poll | option_index

Records are written into account buffers allocated at their maximum size:

	if err := codec.WritePoll(account.Data, poll); err != nil {
		return err
	}

Decoding ignores the zeroed tail of the buffer. A buffer that was allocated
but never written decodes successfully with Initialized == false; callers
check that flag rather than relying on decode failure.

# Errors

Malformed input fails with ErrDecode. Writing a record into a buffer that
cannot hold it fails with ErrBufferTooSmall.
*/
package codec
