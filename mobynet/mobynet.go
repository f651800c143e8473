// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/siemens/hostwatch/subnet"
	"github.com/siemens/hostwatch/types"

	mobytypes "github.com/docker/docker/api/types"
	"github.com/thediveo/lxkns/log"
)

// Network is an IPv4 Docker network a container is attached to, together
// with the container's own address on it.
type Network struct {
	Name string     // Docker network name.
	Addr types.Addr // container's address on this network.
	Mask types.Addr // network's subnet mask.
}

// String returns the network name together with its subnet.
func (n Network) String() string {
	return fmt.Sprintf("%s (%s)", n.Name, subnet.String(n.Addr, n.Mask))
}

// ContainerInspector inspects Docker containers; the Docker client
// implements it.
type ContainerInspector interface {
	ContainerInspect(ctx context.Context, container string) (mobytypes.ContainerJSON, error)
}

// DiscoverContainerNetworks inspects the specified container and returns the
// IPv4 networks it is attached to, sorted by network name, as well as a
// reference to its network namespace in the form of "/proc/$PID/ns/net".
// Networks without an IPv4 address, such as "host" and "none", are skipped.
//
// Docker network names are not necessarily unambiguous, but the attached
// networks of a single container are keyed by name, so they are.
func DiscoverContainerNetworks(ctx context.Context, moby ContainerInspector, container string) ([]Network, string, error) {
	details, err := moby.ContainerInspect(ctx, container)
	if err != nil {
		return nil, "", fmt.Errorf("cannot inspect container %q: %w", container, err)
	}
	if details.ContainerJSONBase == nil || details.State == nil || details.State.Pid == 0 {
		return nil, "", fmt.Errorf("container %q is not running", container)
	}
	name := strings.TrimPrefix(details.Name, "/") // argh, Docker's "/name" legacy!
	netnsref := fmt.Sprintf("/proc/%d/ns/net", details.State.Pid)
	nets := networksOf(details)
	log.Debugf("container %q in %s attached to %d IPv4 network(s)", name, netnsref, len(nets))
	return nets, netnsref, nil
}

// networksOf returns the IPv4 networks found in the container details.
func networksOf(details mobytypes.ContainerJSON) []Network {
	if details.NetworkSettings == nil {
		return nil
	}
	nets := make([]Network, 0, len(details.NetworkSettings.Networks))
	for netname, endpoint := range details.NetworkSettings.Networks {
		if endpoint == nil || endpoint.IPAddress == "" {
			continue
		}
		addr, err := types.ParseAddr(endpoint.IPAddress)
		if err != nil {
			log.Warnf("skipping network %q with unusable address %q", netname, endpoint.IPAddress)
			continue
		}
		nets = append(nets, Network{
			Name: netname,
			Addr: addr,
			Mask: types.Mask(endpoint.IPPrefixLen),
		})
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i].Name < nets[j].Name })
	return nets
}

// Select returns the network with the specified name. An empty name selects
// the only network, failing when there is more than one to choose from.
func Select(nets []Network, name string) (Network, error) {
	if name == "" {
		switch len(nets) {
		case 0:
			return Network{}, fmt.Errorf("container is not attached to any IPv4 network")
		case 1:
			return nets[0], nil
		}
		names := make([]string, 0, len(nets))
		for _, n := range nets {
			names = append(names, n.Name)
		}
		return Network{}, fmt.Errorf("container is attached to multiple networks, choose one of: %s",
			strings.Join(names, ", "))
	}
	for _, n := range nets {
		if n.Name == name {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("container is not attached to IPv4 network %q", name)
}
