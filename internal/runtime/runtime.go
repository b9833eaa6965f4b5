package runtime

import (
	"context"
	"fmt"
	"log/slog"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (

	// Snapshotter used for container filesystems. fuse-overlayfs provides
	// overlay semantics without requiring root privileges (no mount(2)),
	// allowing builds to run as a regular user.
	snapshotter = "fuse-overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Manages the containerd client and provides image and container operations.
type Runtime struct {
	client *containerd.Client // Containerd client for managing containers and images.
}

// Creates a runtime connected to the containerd socket at the given address.
//
// The namespace scopes all containerd operations to this tool's images and
// containers. The runtime must be closed when no longer needed.
func New(address, namespace string) (*Runtime, error) {
	client, err := containerd.New(address, containerd.WithDefaultNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return &Runtime{client: client}, nil
}

// Closes the containerd client connection.
func (rt *Runtime) Close() error {
	return rt.client.Close()
}

// A builder image resolved for one target platform.
//
// The digest records exactly which image the build ran on; it is logged so
// builds can be traced back to the builder toolchain they used.
type Image struct {
	Ref      string           // Image reference the build was asked for.
	Digest   digest.Digest    // Content digest of the resolved image.
	Platform ocispec.Platform // Platform the image layers were unpacked for.

	img containerd.Image
}

// Resolves the builder image for a platform, pulling it if not present.
//
// A locally known image is reused without touching the network. The layers
// for the requested platform are unpacked into the snapshotter so container
// creation does not have to. Building for a platform other than the host
// requires QEMU / binfmt_misc support in the kernel.
func (rt *Runtime) PullImage(ctx context.Context, ref, platform string) (*Image, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	matcher := platforms.Only(p)

	img, err := rt.client.GetImage(ctx, ref)
	if err != nil {
		if !errdefs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
		}

		slog.Info("pulling builder image", "ref", ref, "platform", platform)
		img, err = rt.client.Pull(ctx, ref,
			containerd.WithPlatformMatcher(matcher),
			containerd.WithPullUnpack,
			containerd.WithPullSnapshotter(snapshotter),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: pulling %s: %w", ErrRuntime, ref, err)
		}
	}

	unpacked, err := img.IsUnpacked(ctx, snapshotter)
	if err == nil && !unpacked {
		if err := img.Unpack(ctx, snapshotter); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
		}
	}

	slog.Debug("builder image ready", "ref", ref, "digest", img.Target().Digest)

	return &Image{
		Ref:      ref,
		Digest:   img.Target().Digest,
		Platform: p,
		img:      img,
	}, nil
}

// A host path bind-mounted into a build container.
type Mount struct {
	Source   string // Host directory.
	Target   string // Mount point inside the container.
	ReadOnly bool
}

// Starts a build container from a resolved image.
//
// The container gets a fresh snapshot, the given bind mounts, and a
// long-running task (sleep infinity) so that subsequent RunScript calls have
// a running process to attach to. Any stale container with the same ID from
// a previous build is removed first.
func (rt *Runtime) StartContainer(ctx context.Context, image *Image, id string, mounts []Mount) (*Container, error) {
	c := &Container{
		client:   rt.client,
		id:       id,
		platform: platforms.Format(image.Platform),
	}

	// Remove any stale container from a previous build with the same ID.
	c.remove(ctx)

	ctr, err := c.create(ctx, image.img, mounts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	if err := c.startTask(ctx, ctr); err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	slog.Debug("container started", "id", id, "image", image.Ref)

	return c, nil
}
