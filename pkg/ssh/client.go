package ssh

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// Config SSH配置
type Config struct {
	// Timeout 建连与认证超时
	Timeout time.Duration
	// CommandTimeout 单条命令超时，<=0 时仅受调用方 ctx 约束
	CommandTimeout time.Duration
}

// ConnectionInfo SSH连接信息
type ConnectionInfo struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CommandResult 命令执行结果
type CommandResult struct {
	Command  string        `json:"command"`
	Output   string        `json:"output"`
	Error    string        `json:"error"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Client SSH客户端，回显以 exec 通道逐条采集
type Client struct {
	config     *Config
	connection *ssh.Client
	mutex      sync.Mutex
}

// NewClient 创建SSH客户端
func NewClient(config *Config) *Client {
	if config == nil {
		config = &Config{}
	}
	if config.Timeout <= 0 {
		config.Timeout = 7 * time.Second
	}
	return &Client{config: config}
}

// clientConfig 兼容旧设备的算法集合
func (c *Client) clientConfig(info *ConnectionInfo) *ssh.ClientConfig {
	cfg := &ssh.ClientConfig{
		User:            info.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.config.Timeout,
		Config: ssh.Config{
			KeyExchanges: []string{
				"curve25519-sha256",
				"curve25519-sha256@libssh.org",
				"diffie-hellman-group14-sha256",
				"diffie-hellman-group14-sha1",
				"diffie-hellman-group1-sha1",
				"diffie-hellman-group-exchange-sha256",
				"diffie-hellman-group-exchange-sha1",
				"ecdh-sha2-nistp256",
				"ecdh-sha2-nistp384",
				"ecdh-sha2-nistp521",
			},
			Ciphers: []string{
				"aes128-ctr",
				"aes192-ctr",
				"aes256-ctr",
				"aes128-gcm@openssh.com",
				"aes256-gcm@openssh.com",
				"chacha20-poly1305@openssh.com",
				"aes128-cbc",
				"3des-cbc",
			},
			MACs: []string{
				"hmac-sha2-256-etm@openssh.com",
				"hmac-sha2-256",
				"hmac-sha1",
				"hmac-sha1-96",
			},
		},
		HostKeyAlgorithms: []string{
			"ssh-ed25519",
			"ssh-rsa",
			"rsa-sha2-256",
			"rsa-sha2-512",
			"ecdsa-sha2-nistp256",
			"ecdsa-sha2-nistp384",
			"ecdsa-sha2-nistp521",
		},
	}
	if info.Password != "" {
		// H3C/Cisco 常用 keyboard-interactive，统一以密码应答
		cfg.Auth = []ssh.AuthMethod{
			ssh.Password(info.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = info.Password
				}
				return answers, nil
			}),
		}
	}
	return cfg
}

// Connect 连接SSH服务器
func (c *Client) Connect(ctx context.Context, info *ConnectionInfo) error {
	if info == nil || strings.TrimSpace(info.Host) == "" {
		return fmt.Errorf("ssh connect: empty host")
	}
	port := info.Port
	if port <= 0 {
		port = 22
	}
	address := net.JoinHostPort(info.Host, fmt.Sprintf("%d", port))

	dialer := &net.Dialer{Timeout: c.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to dial: %w", err)
	}
	// 握手阶段同样受超时约束
	_ = conn.SetDeadline(time.Now().Add(c.config.Timeout))
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, address, c.clientConfig(info))
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SSH connection: %w", err)
	}
	_ = conn.SetDeadline(time.Time{})

	c.mutex.Lock()
	c.connection = ssh.NewClient(sshConn, chans, reqs)
	c.mutex.Unlock()
	return nil
}

// newSessionWithRetry 创建会话
// 部分设备快速连续开通道会返回 "administratively prohibited"，短延迟重试
func (c *Client) newSessionWithRetry(ctx context.Context) (*ssh.Session, error) {
	c.mutex.Lock()
	conn := c.connection
	c.mutex.Unlock()
	if conn == nil {
		return nil, fmt.Errorf("SSH connection not established")
	}

	var lastErr error
	for _, d := range []time.Duration{0, 200 * time.Millisecond, 500 * time.Millisecond, time.Second} {
		if d > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(d):
			}
		}
		sess, err := conn.NewSession()
		if err == nil {
			return sess, nil
		}
		lastErr = err
		msg := strings.ToLower(err.Error())
		if !strings.Contains(msg, "prohibited") && !strings.Contains(msg, "open failed") {
			break
		}
	}
	return nil, lastErr
}

// ExecuteCommand 执行单个命令
func (c *Client) ExecuteCommand(ctx context.Context, command string) (*CommandResult, error) {
	if c.config.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.CommandTimeout)
		defer cancel()
	}

	startTime := time.Now()
	result := &CommandResult{Command: command}

	session, err := c.newSessionWithRetry(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create session: %v", err)
		result.ExitCode = -1
		return result, err
	}
	defer session.Close()

	type outcome struct {
		out []byte
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		out, err := session.CombinedOutput(command)
		done <- outcome{out: out, err: err}
	}()

	select {
	case o := <-done:
		result.Duration = time.Since(startTime)
		result.Output = string(o.out)
		if o.err != nil {
			result.Error = o.err.Error()
			if exitError, ok := o.err.(*ssh.ExitError); ok {
				result.ExitCode = exitError.ExitStatus()
			} else {
				result.ExitCode = -1
			}
			return result, o.err
		}
		return result, nil
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGTERM)
		_ = session.Close()
		<-done
		result.Duration = time.Since(startTime)
		result.Error = "command timeout"
		result.ExitCode = -1
		return result, ctx.Err()
	}
}

// ExecuteCommands 依次执行命令，单条失败不影响后续命令
func (c *Client) ExecuteCommands(ctx context.Context, commands []string) ([]*CommandResult, error) {
	results := make([]*CommandResult, 0, len(commands))
	for _, command := range commands {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		result, _ := c.ExecuteCommand(ctx, command)
		results = append(results, result)
	}
	return results, nil
}

// Close 关闭连接
func (c *Client) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.connection == nil {
		return nil
	}
	err := c.connection.Close()
	c.connection = nil
	return err
}

// Collect 建连、逐条执行命令并断开
func Collect(ctx context.Context, cfg *Config, info *ConnectionInfo, commands []string) ([]*CommandResult, error) {
	client := NewClient(cfg)
	if err := client.Connect(ctx, info); err != nil {
		return nil, err
	}
	defer client.Close()
	return client.ExecuteCommands(ctx, commands)
}
