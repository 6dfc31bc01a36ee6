// Package wire provides the serial bridge datagram format.
//
// Every line read from the serial port is carried in exactly one UDP
// datagram:
//
//	offset  size  field
//	0       2     sync = 0xB5, 0x62
//	2       2     payload length (uint16, little-endian)
//	4       4     baud rate (uint32, little-endian)
//	8       N     payload
//	8+N     2     checksum ck_a, ck_b
//
// The checksum is an 8-bit Fletcher running sum over everything between
// the sync bytes and the checksum itself.
//
// The format is fire-and-forget. There is no sequence number or
// acknowledgement and a receiver is not expected to resynchronize within
// a stream: a datagram either decodes as a whole or is dropped.
//
//	Producer: serbridge
//	Consumer: anything listening on UDP port 9000 (e.g. serbridge-mon)
package wire
