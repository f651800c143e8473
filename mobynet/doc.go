/*
Package mobynet discovers the IPv4 networks a Docker container is attached to,
as well as the container's network namespace. hostwatch then scans a network
from the perspective of the container.
*/
package mobynet
