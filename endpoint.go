package flatmenu

// endpoint returns the source's transport controls, if it has any.
func (p *Proxy) endpoint() (Endpoint, error) {
	if p.src == nil {
		return nil, ErrNoSource
	}
	ep, ok := p.src.(Endpoint)
	if !ok {
		return nil, ErrNotSupported
	}
	return ep, nil
}

// SetBusName forwards the bus name to the source's endpoint.
func (p *Proxy) SetBusName(name string) error {
	ep, err := p.endpoint()
	if err != nil {
		return err
	}
	ep.SetBusName(name)
	return nil
}

// BusName returns the source's bus name, or "" without an endpoint.
func (p *Proxy) BusName() string {
	if ep, err := p.endpoint(); err == nil {
		return ep.BusName()
	}
	return ""
}

// SetObjectPath forwards the object path to the source's endpoint.
func (p *Proxy) SetObjectPath(path string) error {
	ep, err := p.endpoint()
	if err != nil {
		return err
	}
	ep.SetObjectPath(path)
	return nil
}

// ObjectPath returns the source's object path, or "" without an endpoint.
func (p *Proxy) ObjectPath() string {
	if ep, err := p.endpoint(); err == nil {
		return ep.ObjectPath()
	}
	return ""
}

// SetBusType forwards the bus type to the source's endpoint.
func (p *Proxy) SetBusType(t BusType) error {
	ep, err := p.endpoint()
	if err != nil {
		return err
	}
	ep.SetBusType(t)
	return nil
}

// BusType returns the source's bus type (SessionBus without an endpoint).
func (p *Proxy) BusType() BusType {
	if ep, err := p.endpoint(); err == nil {
		return ep.BusType()
	}
	return SessionBus
}

// Status returns the source's connection status (Disconnected without an
// endpoint).
func (p *Proxy) Status() Status {
	if ep, err := p.endpoint(); err == nil {
		return ep.Status()
	}
	return Disconnected
}

// Start asks the source's endpoint to connect.
func (p *Proxy) Start() error {
	ep, err := p.endpoint()
	if err != nil {
		return err
	}
	return ep.Start()
}

// Stop asks the source's endpoint to disconnect.
func (p *Proxy) Stop() error {
	ep, err := p.endpoint()
	if err != nil {
		return err
	}
	return ep.Stop()
}
