package workload

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/gkeops/internal/util/wait"
)

// availabilityGracePeriod is the default for how long a deployment may go
// without reporting an Available condition before the wait treats the
// missing condition as an error rather than "not yet".
const availabilityGracePeriod = 10 * time.Second

// RemoveDeployment deletes a deployment and waits until the API server no
// longer knows about it.
func (c *Client) RemoveDeployment(ctx context.Context, name, namespace string) error {
	err := c.withAuthRetry(ctx, func() error {
		return c.typed().AppsV1().Deployments(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete deployment %s: %w", name, err)
	}

	return wait.For(ctx,
		func() (bool, error) {
			var readErr error
			err := c.withAuthRetry(ctx, func() error {
				_, readErr = c.typed().AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
				return readErr
			})
			if apierrors.IsNotFound(err) {
				return true, nil
			}
			return false, err
		},
		wait.WithInterval(c.interval),
		wait.WithMessage(fmt.Sprintf("Waiting for deployment %s to delete", name)),
		wait.WithDoneMessage(fmt.Sprintf("Deployment %s deleted", name)),
		wait.WithOutput(c.out),
	)
}

// WaitForDeployment blocks until the deployment reports an Available
// condition with status true. A deployment that stops progressing is a
// terminal failure; a deployment that disappears mid-wait is too.
func (c *Client) WaitForDeployment(ctx context.Context, name, namespace string) error {
	start := time.Now()

	return wait.For(ctx,
		func() (bool, error) {
			var deployment *appsv1.Deployment
			err := c.withAuthRetry(ctx, func() error {
				var getErr error
				deployment, getErr = c.typed().AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
				return getErr
			})
			if err != nil {
				if apierrors.IsNotFound(err) {
					return false, fmt.Errorf("deployment %s no longer exists", name)
				}
				return false, err
			}

			var available, haveAvailable bool
			for _, cond := range deployment.Status.Conditions {
				switch cond.Type {
				case appsv1.DeploymentAvailable:
					haveAvailable = true
					available = cond.Status == corev1.ConditionTrue
				case appsv1.DeploymentProgressing:
					if cond.Status == corev1.ConditionFalse {
						return false, fmt.Errorf("deployment %s stopped progressing", name)
					}
				}
			}
			if available {
				return true, nil
			}
			if !haveAvailable && time.Since(start) > c.grace {
				return false, fmt.Errorf("deployment %s never reported an availability condition", name)
			}
			return false, nil
		},
		wait.WithInterval(c.interval),
		wait.WithMessage(fmt.Sprintf("Waiting for deployment %s to deploy", name)),
		wait.WithDoneMessage(fmt.Sprintf("Deployment %s ready", name)),
		wait.WithOutput(c.out),
	)
}

// WaitForService blocks until the service has a load-balancer ingress IP
// assigned and returns that IP.
func (c *Client) WaitForService(ctx context.Context, name, namespace string) (string, error) {
	var ip string

	err := wait.For(ctx,
		func() (bool, error) {
			var service *corev1.Service
			err := c.withAuthRetry(ctx, func() error {
				var getErr error
				service, getErr = c.typed().CoreV1().Services(namespace).Get(ctx, name, metav1.GetOptions{})
				return getErr
			})
			if err != nil {
				if apierrors.IsNotFound(err) {
					return false, fmt.Errorf("service %s no longer exists", name)
				}
				return false, err
			}

			ingress := service.Status.LoadBalancer.Ingress
			if len(ingress) == 0 || ingress[0].IP == "" {
				return false, nil
			}
			ip = ingress[0].IP
			return true, nil
		},
		wait.WithInterval(c.interval),
		wait.WithMessage(fmt.Sprintf("Waiting for service %s to be ready", name)),
		wait.WithDoneMessage(fmt.Sprintf("Service %s ready", name)),
		wait.WithOutput(c.out),
	)
	if err != nil {
		return "", err
	}
	return ip, nil
}

// WaitForDaemonSet blocks until every scheduled daemon pod is ready.
func (c *Client) WaitForDaemonSet(ctx context.Context, name, namespace string) error {
	return wait.For(ctx,
		func() (bool, error) {
			var ds *appsv1.DaemonSet
			err := c.withAuthRetry(ctx, func() error {
				var getErr error
				ds, getErr = c.typed().AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
				return getErr
			})
			if err != nil {
				if apierrors.IsNotFound(err) {
					return false, fmt.Errorf("daemon set %s no longer exists", name)
				}
				return false, err
			}
			return ds.Status.DesiredNumberScheduled == ds.Status.NumberReady, nil
		},
		wait.WithInterval(c.interval),
		wait.WithMessage(fmt.Sprintf("Waiting for daemon set %s to be ready", name)),
		wait.WithDoneMessage(fmt.Sprintf("Daemon set %s ready", name)),
		wait.WithOutput(c.out),
	)
}
