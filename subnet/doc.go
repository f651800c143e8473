/*
Package subnet enumerates the usable host addresses of an IPv4 subnet, given
any address inside the subnet together with its subnet mask.

Usable are all addresses strictly between the network address (all host bits
cleared) and the broadcast address (all host bits set). Point-to-point /31
and single-host /32 subnets thus have no usable addresses in this sense.
*/
package subnet
