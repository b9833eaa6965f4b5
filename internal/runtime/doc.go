// Package runtime manages build containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon, resolves builder images for
// a target platform (pulling and unpacking them on first use), and starts
// containers with overlayfs snapshots. The shared installation prefix and
// the source cache enter each container as bind mounts; that filesystem
// contract is the only channel between build stages.
//
// Each [Container] wraps a running containerd task. Stage scripts are piped
// to a shell over stdin and their output streams live to the caller. When a
// container is no longer needed it should be destroyed to release its
// snapshot and task resources.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "ffbuild")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	img, err := rt.PullImage(ctx, "ghcr.io/ffbuild/builder:latest", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//
//	ctr, err := rt.StartContainer(ctx, img, "ffbuild-stage-1", []runtime.Mount{
//	    {Source: prefixDir, Target: "/opt/ffbuild/prefix"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	code, err := ctr.RunScript(ctx, script, runtime.ExecOptions{Stdout: os.Stdout})
package runtime
